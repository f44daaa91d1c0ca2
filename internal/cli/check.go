package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/importext/importext/internal/pathext"
	"github.com/importext/importext/internal/rules"
)

var (
	checkFile     string
	checkTypeOnly bool
	checkSingle   bool
	checkRule     string
	checkConfig   string
	checkJSON     bool
	checkFlags    ruleFlags
)

func init() {
	checkCmd.Flags().StringVar(&checkFile, "file", "index.ts", "File the specifier appears in; picks the default extension and the base directory")
	checkCmd.Flags().BoolVar(&checkTypeOnly, "type-only", false, "Treat the specifier as a type-only import or export")
	checkCmd.Flags().BoolVar(&checkSingle, "single-quote", false, "Quote the replacement with single quotes")
	checkCmd.Flags().StringVar(&checkRule, "rule", string(rules.RequirePathImportExtension), "Rule whose project options apply")
	checkCmd.Flags().StringVar(&checkConfig, "config", "", "Path to the project file (default: nearest .importext.yaml)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output in JSON format")
	checkFlags.register(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <specifier>",
	Short: "Decide a single specifier",
	Long: `Run one specifier through the decision engine and print whether it would be
flagged and what it would be rewritten to. Directory detection uses the real
filesystem, relative to --file.`,
	Example: `  importext check ./utils
  importext check ./components --file src/app.mts
  importext check ./types --type-only --check-type`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// checkResult is the JSON shape of a check.
type checkResult struct {
	Specifier     string                `json:"specifier"`
	File          string                `json:"file"`
	Rule          rules.Name            `json:"rule"`
	Configuration pathext.Configuration `json:"configuration"`
	ShouldFlag    bool                  `json:"shouldFlag"`
	Replacement   string                `json:"replacement,omitempty"`
	Message       string                `json:"message,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	name, ok := rules.Parse(checkRule)
	if !ok {
		return fmt.Errorf("unknown rule %q (known: %v)", checkRule, rules.AllNames())
	}
	rule := rules.Lookup(name)
	cfg, err := loadProject(checkConfig)
	if err != nil {
		return err
	}
	overrides, err := checkFlags.partial(cmd)
	if err != nil {
		return err
	}

	file := checkFile
	if !filepath.IsAbs(file) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		file = filepath.Join(cwd, file)
	}

	resolved := pathext.Resolve(file, cfg.Partial(name).Merge(overrides))
	quote := byte('"')
	if checkSingle {
		quote = '\''
	}
	decision := pathext.Decide(pathext.Candidate{
		RawText:        args[0],
		Quote:          quote,
		IsTypeOnly:     checkTypeOnly,
		ContainingFile: file,
		RootDir:        cfg.RootDir(),
	}, resolved)

	result := checkResult{
		Specifier:     args[0],
		File:          file,
		Rule:          rule.Name,
		Configuration: resolved,
		ShouldFlag:    decision.ShouldFlag,
		Replacement:   decision.Replacement,
	}
	if decision.ShouldFlag {
		result.Message = rule.Message
	}

	if checkJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling check result: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Rule:\t%s\n", result.Rule)
	fmt.Fprintf(w, "Specifier:\t%s\n", result.Specifier)
	fmt.Fprintf(w, "Extension:\t%s\n", resolved.Extension)
	if decision.ShouldFlag {
		fmt.Fprintf(w, "Flagged:\tyes\n")
		fmt.Fprintf(w, "Replacement:\t%s\n", decision.Replacement)
		fmt.Fprintf(w, "Message:\t%s\n", result.Message)
	} else {
		fmt.Fprintf(w, "Flagged:\tno\n")
	}
	return w.Flush()
}
