package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kraxler/kraxler/internal/anomaly"
	"github.com/kraxler/kraxler/internal/cli"
	"github.com/kraxler/kraxler/internal/common"
	"github.com/kraxler/kraxler/internal/dates"
	"github.com/kraxler/kraxler/internal/history"
	"github.com/kraxler/kraxler/internal/model"
	"github.com/kraxler/kraxler/internal/service"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run anomaly checks over stored invoices",
		Long: `Run the anomaly check battery over every committed invoice in the
date range, re-querying vendor history per invoice, and print a summary of
the flags found.`,
		RunE: runCheck,
	}

	cmd.Flags().String("from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD, inclusive)")

	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	account, err := currentAccount()
	if err != nil {
		return common.NewUserError("cannot run checks", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return common.NewUserError("could not open invoice store", err)
	}
	defer closeStorage(store)

	filter := service.InvoiceFilter{
		Account:  account,
		Statuses: model.QualifyingStatuses(),
	}
	if fromStr, _ := cmd.Flags().GetString("from"); fromStr != "" {
		from, err := dates.Parse(fromStr)
		if err != nil {
			return common.NewUserError("invalid --from date", err)
		}
		filter.StartDate = &from
	}
	if toStr, _ := cmd.Flags().GetString("to"); toStr != "" {
		to, err := dates.Parse(toStr)
		if err != nil {
			return common.NewUserError("invalid --to date", err)
		}
		filter.EndDate = &to
	}

	invoices, err := store.ListInvoices(ctx, filter)
	if err != nil {
		return common.NewUserError("could not list invoices", err)
	}
	if len(invoices) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("no invoices in range"))
		return nil
	}

	aggregator, err := history.NewAggregator(store)
	if err != nil {
		return err
	}
	detector, err := anomaly.NewDetector(aggregator)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(invoices),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Checking invoices..."),
	)

	var allFlags []model.AnomalyFlag
	reviewCount := 0
	for i := range invoices {
		inv := &invoices[i]
		amount := inv.AmountCents
		classification := model.Classification{
			Category:       inv.Category,
			AmountCents:    &amount,
			VendorProduct:  inv.VendorProduct,
			VATRecoverable: inv.VATRecoverable,
		}

		// The invoice is already in the store, so its history must be the
		// rows that preceded it, not an aggregate that counts itself.
		hist, err := aggregator.PriorVendorHistory(ctx, inv.Account, inv.SenderDomain, inv.Date, inv.ID)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("anomaly check failed for invoice %s", inv.ID), err)
		}
		result := detector.CheckWithHistory(classification, inv.SenderDomain, hist)

		allFlags = append(allFlags, result.Flags...)
		if result.RequiresReview {
			reviewCount++
		}
		_ = bar.Add(1)
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	summary := anomaly.Summarize(allFlags)
	fmt.Fprintln(cmd.OutOrStdout(), renderAnomalySummary(summary, len(invoices), reviewCount))
	return nil
}

func renderAnomalySummary(summary anomaly.Summary, invoiceCount, reviewCount int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Invoices checked: %d\n", invoiceCount))
	b.WriteString(fmt.Sprintf("Flags: %d (%d warning, %d review required)\n",
		summary.Total(), summary.TotalWarnings, summary.TotalReviewRequired))
	b.WriteString(fmt.Sprintf("Invoices needing review: %d\n", reviewCount))

	if len(summary.ByType) > 0 {
		types := make([]model.FlagType, 0, len(summary.ByType))
		for ft := range summary.ByType {
			types = append(types, ft)
		}
		sort.Slice(types, func(a, b int) bool { return types[a] < types[b] })

		b.WriteString("\n")
		for _, ft := range types {
			b.WriteString(fmt.Sprintf("  %-28s %d\n", ft, summary.ByType[ft]))
		}
	}

	title := "Anomaly summary"
	if summary.TotalReviewRequired > 0 {
		title = cli.WarningStyle.Render(title)
	}
	return cli.RenderBox(title, strings.TrimRight(b.String(), "\n"))
}
