package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/importext/importext/internal/watch"
)

var (
	watchFix     bool
	watchFormat  string
	watchConfig  string
	watchRules   []string
	watchVerbose bool
	watchFlags   ruleFlags
)

func init() {
	watchCmd.Flags().BoolVar(&watchFix, "fix", false, "Rewrite flagged specifiers in place")
	watchCmd.Flags().StringVar(&watchFormat, "format", "", "Output format: text or json (default from user settings, else text)")
	watchCmd.Flags().StringVar(&watchConfig, "config", "", "Path to the project file (default: nearest .importext.yaml)")
	watchCmd.Flags().StringArrayVar(&watchRules, "rule", nil, "Only run this rule (repeatable)")
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Trace each file to stderr")
	watchFlags.register(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Lint, then re-lint files as they change",
	Long: `Run a full lint, then watch the given directories (default: the project root)
and re-lint files whenever they are written. node_modules and dot directories
are not watched. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(watchFormat)
	if err != nil {
		return err
	}

	setup, err := newLintSetup(cmd, lintSetupOptions{
		configPath: watchConfig,
		only:       watchRules,
		fix:        watchFix,
		verbose:    watchVerbose,
		flags:      &watchFlags,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := setup.linter.Run(ctx, args)
	if err != nil {
		return fmt.Errorf("linting: %w", err)
	}
	if err := printReport(cmd, report, format, false); err != nil {
		return err
	}

	roots, err := watchRoots(setup.linter.Root(), args)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d director(ies) for changes...\n", len(roots))

	w := &watch.Watcher{
		Debounce: watch.DefaultDebounce,
		OnError: func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: watch: %v\n", err)
		},
	}
	return w.Run(ctx, roots, func(ctx context.Context, changed []string) {
		// Directories may have appeared or vanished since the last pass.
		setup.dirs.Purge()

		var files []string
		for _, p := range changed {
			if setup.linter.Matches(p) {
				files = append(files, p)
			}
		}
		if len(files) == 0 {
			return
		}

		report, err := setup.linter.LintFiles(ctx, files)
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			return
		}
		if err := printReport(cmd, report, format, false); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	})
}

// watchRoots returns the directories to watch: each directory argument, the
// parent of each file argument, or root when there are none.
func watchRoots(root string, args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{root}, nil
	}
	seen := make(map[string]bool)
	var roots []string
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", a, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", a, err)
		}
		if !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		if !seen[abs] {
			seen[abs] = true
			roots = append(roots, abs)
		}
	}
	return roots, nil
}
