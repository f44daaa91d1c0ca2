package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/importext/importext/internal/branding"
	"github.com/importext/importext/internal/config"
)

// ErrProblems is returned when lint problems remain after a run. The
// problems themselves have already been printed.
var ErrProblems = errors.New("problems found")

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` checks that relative and absolute import/export paths in
JavaScript and TypeScript sources name the file extension the runtime will
load, and rewrites them when asked.

Project settings live in .importext.yaml; user settings in ~/` + branding.HomeDir() + `/config.yaml.
See ` + branding.RepoURL() + ` for details.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, ErrProblems) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
