package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kraxler/kraxler/internal/cli"
	"github.com/kraxler/kraxler/internal/common"
	"github.com/kraxler/kraxler/internal/history"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <sender-domain>",
		Short: "Show the vendor history for a sender domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			account, err := currentAccount()
			if err != nil {
				return common.NewUserError("cannot query history", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return common.NewUserError("could not open invoice store", err)
			}
			defer closeStorage(store)

			aggregator, err := history.NewAggregator(store)
			if err != nil {
				return err
			}

			h, err := aggregator.VendorHistory(ctx, account, args[0])
			if err != nil {
				return common.NewUserError("could not aggregate vendor history", err)
			}

			out := cmd.OutOrStdout()
			if !h.HasHistory() {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("no history for %s", args[0])))
				return nil
			}

			fmt.Fprintln(out, cli.FormatTitle(h.SenderDomain))
			fmt.Fprintf(out, "  invoices:       %d\n", h.InvoiceCount)
			fmt.Fprintf(out, "  last category:  %s\n", h.LastCategory)
			fmt.Fprintf(out, "  total amount:   €%d.%02d\n", h.TotalAmountCents/100, h.TotalAmountCents%100)
			fmt.Fprintf(out, "  average amount: €%d.%02d\n", h.AverageAmountCents/100, h.AverageAmountCents%100)
			return nil
		},
	}
}
