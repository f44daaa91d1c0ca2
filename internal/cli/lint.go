package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	lintFix     bool
	lintFormat  string
	lintConfig  string
	lintRules   []string
	lintCache   bool
	lintVerbose bool
	lintQuiet   bool
	lintFlags   ruleFlags
)

func init() {
	lintCmd.Flags().BoolVar(&lintFix, "fix", false, "Rewrite flagged specifiers in place")
	lintCmd.Flags().StringVar(&lintFormat, "format", "", "Output format: text or json (default from user settings, else text)")
	lintCmd.Flags().StringVar(&lintConfig, "config", "", "Path to the project file (default: nearest .importext.yaml)")
	lintCmd.Flags().StringArrayVar(&lintRules, "rule", nil, "Only run this rule (repeatable)")
	lintCmd.Flags().BoolVar(&lintCache, "cache", false, "Skip files that were clean on the last run")
	lintCmd.Flags().BoolVarP(&lintVerbose, "verbose", "v", false, "Trace each file to stderr")
	lintCmd.Flags().BoolVarP(&lintQuiet, "quiet", "q", false, "Print nothing when there are no problems")
	lintFlags.register(lintCmd)
	rootCmd.AddCommand(lintCmd)
}

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Check import and export paths for explicit extensions",
	Long: `Check relative and absolute import/export specifiers in JavaScript and
TypeScript files. Directories are walked using the include and exclude globs
from .importext.yaml; files named explicitly are always checked unless excluded.

Exits with status 1 when problems remain and 2 when the run fails.`,
	RunE: runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(lintFormat)
	if err != nil {
		return err
	}

	setup, err := newLintSetup(cmd, lintSetupOptions{
		configPath: lintConfig,
		only:       lintRules,
		fix:        lintFix,
		useCache:   lintCache,
		verbose:    lintVerbose,
		flags:      &lintFlags,
	})
	if err != nil {
		return err
	}

	report, err := setup.linter.Run(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("linting: %w", err)
	}

	if err := printReport(cmd, report, format, lintQuiet); err != nil {
		return err
	}
	if report.ErrorCount > 0 {
		return ErrProblems
	}
	return nil
}
