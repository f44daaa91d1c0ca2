package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/importext/importext/internal/branding"
	"github.com/importext/importext/internal/config"
	"github.com/importext/importext/internal/project"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings and validate the project file",
	Long: `Read and write ` + branding.DisplayName() + ` user settings stored at ~/` + branding.HomeDir() + `/config.yaml,
or validate a project ` + project.FileName + ` against its schema.

Settings:
  format      default output format for lint and watch (text or json)
  cache_size  how many directory lookups are remembered per run`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a project file against the schema",
	Long:  `Validate the given file, or the nearest ` + project.FileName + ` above the current directory.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			path, err = project.Find(cwd)
			if errors.Is(err, project.ErrNotFound) {
				return fmt.Errorf("%w (run '%s init' to create one)", err, branding.CLIName())
			}
			if err != nil {
				return err
			}
		}

		result, err := project.ValidateFile(path)
		if err != nil {
			return err
		}
		if !result.Valid {
			return &project.InvalidError{Path: path, Issues: result.Issues}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
		return nil
	},
}
