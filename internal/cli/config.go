package cli

import (
	"errors"
	"fmt"

	"github.com/ariel-frischer/cl/internal/config"
	"github.com/ariel-frischer/cl/internal/git"
	"github.com/spf13/cobra"
)

var configTemplateFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective cl configuration",
	Long: `Show every configuration value and the layer it came from.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (CL_*)
  2. Project config (.cl.yml at the repository root)
  3. User config (~/.config/cl/config.yml)
  4. Built-in defaults`,
	Example: `  # Show current configuration
  cl config

  # Start a project config from the documented template
  cl config --template > .cl.yml`,
	Args: exactArgs(0),
	RunE: runConfig,
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configCmd.Flags().BoolVar(&configTemplateFlag, "template", false, "Print a commented config template")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if configTemplateFlag {
		fmt.Fprint(out, config.GetDefaultConfigTemplate())
		return nil
	}

	// Outside a repository only the user, env and default layers apply.
	root, err := repositoryRoot()
	if err != nil && !errors.Is(err, git.ErrNotRepository) {
		return err
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:    root,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	for _, key := range config.Keys() {
		value, _ := cfg.Value(key)
		fmt.Fprintf(out, "%-16s %-16v (%s)\n", key, value, cfg.Source(key))
	}
	return nil
}
