package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kraxler/kraxler/internal/cli"
	"github.com/kraxler/kraxler/internal/common"
	"github.com/kraxler/kraxler/internal/dates"
	"github.com/kraxler/kraxler/internal/model"
	"github.com/kraxler/kraxler/internal/resolver"
)

func contextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context <date>",
		Short: "Resolve the tax context for an invoice date",
		Long: `Resolve which situation and income sources were active on the given
date (YYYY-MM-DD) and print the effective business-use percentages per
source after override resolution.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadTaxConfig()
			if err != nil {
				return common.NewUserError("could not load tax configuration", err)
			}

			ictx, err := resolver.BuildInvoiceContext(cfg, args[0])
			if err != nil {
				return common.NewUserError("could not resolve context", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderInvoiceContext(ictx))
			return nil
		},
	}
}

func renderInvoiceContext(ictx *model.InvoiceContext) string {
	var b strings.Builder

	if ictx.HasGap {
		b.WriteString(cli.FormatWarning(fmt.Sprintf("no situation covers %s", dates.Format(ictx.Date))))
		b.WriteString("\n")
	} else {
		s := ictx.Situation
		until := "ongoing"
		if !s.Open() {
			until = dates.Format(*s.To)
		}
		b.WriteString(cli.FormatInfo(fmt.Sprintf("situation %q (%s to %s)", s.ID, dates.Format(s.From), until)))
		b.WriteString("\n")
	}

	if len(ictx.ActiveSources) == 0 {
		b.WriteString(cli.SubtleStyle.Render("no active income sources"))
		return b.String()
	}

	for i := range ictx.ActiveSources {
		src := &ictx.ActiveSources[i]
		b.WriteString(fmt.Sprintf("  %s: telecom %.0f%%, internet %.0f%%, vehicle %.0f%%\n",
			cli.BoldStyle.Render(src.ID),
			resolver.EffectiveTelecomPercent(ictx.Situation, src),
			resolver.EffectiveInternetPercent(ictx.Situation, src),
			resolver.EffectiveVehiclePercent(ictx.Situation, src),
		))
	}

	return strings.TrimRight(b.String(), "\n")
}
