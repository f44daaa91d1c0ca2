package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/importext/importext/internal/branding"
	"github.com/importext/importext/internal/project"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing "+project.FileName)
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a default " + project.FileName,
	Long: `Write a commented ` + project.FileName + ` with the default include/exclude globs
and rule options into the given directory (default: the current directory).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		} else if cwd, err := os.Getwd(); err == nil {
			dir = cwd
		}

		path, err := project.Init(dir, initForce)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created %s\n", path)
		fmt.Fprintf(out, "Run '%s lint' to check the project.\n", branding.CLIName())
		return nil
	},
}
