package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kraxler/kraxler/internal/cli"
	"github.com/kraxler/kraxler/internal/common"
	"github.com/kraxler/kraxler/internal/validation"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the tax configuration",
		Long: `Validate the tax configuration file: jurisdiction rules, allocation
references, situation overlaps and coverage gaps. All findings are reported
at once so everything can be fixed in a single pass.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadTaxConfig()
			if err != nil {
				return common.NewUserError("could not load tax configuration", err)
			}

			report := validation.ValidateConfig(cfg)
			fmt.Fprintln(cmd.OutOrStdout(), renderValidationReport(report))

			if !report.Valid {
				return common.NewUserError("tax configuration failed validation", common.ErrInvalidConfig)
			}
			return nil
		},
	}
}

func renderValidationReport(report validation.Report) string {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Configuration validation"))
	b.WriteString("\n")

	for _, issue := range report.Errors {
		b.WriteString(cli.FormatError(issue.String()))
		b.WriteString("\n")
	}
	for _, issue := range report.Warnings {
		b.WriteString(cli.FormatWarning(issue.String()))
		b.WriteString("\n")
	}

	switch {
	case report.Valid && len(report.Warnings) == 0:
		b.WriteString(cli.FormatSuccess("configuration is valid"))
	case report.Valid:
		b.WriteString(cli.FormatSuccess(fmt.Sprintf("configuration is valid with %d warning(s)", len(report.Warnings))))
	default:
		b.WriteString(cli.FormatError(fmt.Sprintf("%d error(s), %d warning(s)", len(report.Errors), len(report.Warnings))))
	}

	return b.String()
}
