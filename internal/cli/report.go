package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/importext/importext/internal/config"
	"github.com/importext/importext/internal/linter"
)

func resolveFormat(flag string) (string, error) {
	switch flag {
	case "":
		return config.Format(), nil
	case config.FormatText, config.FormatJSON:
		return flag, nil
	default:
		return "", fmt.Errorf("invalid --format %q (want %s or %s)", flag, config.FormatText, config.FormatJSON)
	}
}

func printReport(cmd *cobra.Command, report *linter.Report, format string, quiet bool) error {
	for _, fr := range report.Files {
		if fr.ParseError != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped %s: %s\n", fr.Path, fr.ParseError)
		}
	}

	if format == config.FormatJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	return printReportText(cmd, report, quiet)
}

func printReportText(cmd *cobra.Command, report *linter.Report, quiet bool) error {
	out := cmd.OutOrStdout()
	for _, fr := range report.Files {
		if fr.Problems() == 0 {
			continue
		}
		fmt.Fprintln(out, fr.Path)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, d := range fr.Diagnostics {
			if d.Fixed {
				continue
			}
			fix := ""
			if d.Fix != nil {
				fix = "-> " + d.Fix.Text
			}
			fmt.Fprintf(w, "  %d:%d\terror\t%s\t%s\t%s\n", d.Line, d.Column, d.Message, fix, d.Rule)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if quiet && report.ErrorCount == 0 {
		return nil
	}

	summary := fmt.Sprintf("%d problem(s) in %d file(s)", report.ErrorCount, len(report.Files))
	if report.FixedCount > 0 {
		summary += fmt.Sprintf(", %d fixed", report.FixedCount)
	}
	if report.CachedCount > 0 {
		summary += fmt.Sprintf(", %d cached", report.CachedCount)
	}
	if report.ParseErrorCount > 0 {
		summary += fmt.Sprintf(", %d skipped", report.ParseErrorCount)
	}
	if report.ErrorCount > 0 && report.FixedCount == 0 {
		summary += " (run with --fix to rewrite them)"
	}
	_, err := fmt.Fprintln(out, summary)
	return err
}
