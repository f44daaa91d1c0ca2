package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/importext/importext/internal/rules"
)

var (
	rulesJSON   bool
	rulesConfig string
)

func init() {
	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "Output in JSON format")
	rulesCmd.Flags().StringVar(&rulesConfig, "config", "", "Path to the project file (default: nearest .importext.yaml)")
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	Long:  `List every rule with whether the current project enables it.`,
	RunE:  runRules,
}

// ruleEntry represents a rule for display.
type ruleEntry struct {
	Name        rules.Name `json:"name"`
	Enabled     bool       `json:"enabled"`
	Fixable     bool       `json:"fixable"`
	MessageID   string     `json:"messageId"`
	Description string     `json:"description"`
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadProject(rulesConfig)
	if err != nil {
		return err
	}

	var entries []ruleEntry
	for _, r := range rules.All() {
		entries = append(entries, ruleEntry{
			Name:        r.Name,
			Enabled:     cfg.IsEnabled(r.Name),
			Fixable:     r.Fixable,
			MessageID:   r.MessageID,
			Description: r.Description,
		})
	}

	if rulesJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tENABLED\tFIXABLE\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, yesNo(e.Enabled), yesNo(e.Fixable), e.Description)
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
