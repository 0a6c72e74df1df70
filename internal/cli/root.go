// Package cli implements the cl command line: recording changes per branch,
// showing what is pending, and folding pending changes into the changelog.
package cli

import (
	"errors"
	"fmt"

	"github.com/ariel-frischer/cl/internal/changelog"
	clierrors "github.com/ariel-frischer/cl/internal/errors"
	"github.com/ariel-frischer/cl/internal/fragment"
	"github.com/ariel-frischer/cl/internal/git"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Command groups shown in help output.
const (
	GroupChanges       = "changes"
	GroupRelease       = "release"
	GroupConfiguration = "configuration"
)

var (
	debugFlag bool

	showFormatFlag     string
	showNoHeadingsFlag bool
	showPlainFlag      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cl",
	Short: "Record changes per branch and fold them into CHANGELOG.md",
	Long: `cl keeps a Keep a Changelog formatted CHANGELOG.md up to date without
merge conflicts.

Each change is recorded in a fragment file named after the current git
branch (.cl/<branch>.yml). Running cl without a subcommand shows every
pending change; 'cl aggregate' folds them into the Unreleased section of
the changelog and clears the fragments.`,
	Example: `  # Record changes on the current branch
  cl added "Support for dark mode"
  cl fix "Crash when the config file is empty"

  # Show pending changes
  cl
  cl --format json

  # Fold pending changes into CHANGELOG.md
  cl aggregate

  # Mark a release as yanked
  cl yank 1.2.0`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return nil
		}
		return clierrors.NewArgumentError(
			fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath()),
			"Run 'cl --help' for the list of commands",
			"Quote the description: cl added \"<description>\"",
		)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger(debugFlag)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runShow,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupChanges, Title: "Recording Changes:"},
		&cobra.Group{ID: GroupRelease, Title: "Releasing:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging to stderr")

	rootCmd.Flags().StringVarP(&showFormatFlag, "format", "f", "", "Output format: markdown, json, yaml, terminal (default from config)")
	rootCmd.Flags().BoolVarP(&showNoHeadingsFlag, "no-headings", "n", false, "Omit the release heading and YAML document marker")
	rootCmd.Flags().BoolVar(&showPlainFlag, "plain", false, "Plain terminal output (no colors/icons)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))
	})
}

// initLogger builds the process logger. Debug output goes to stderr with
// --debug; otherwise logging is disabled.
func initLogger(debug bool) error {
	if !debug {
		logger = zap.NewNop()
		git.SetDebugLogger(nil)
		fragment.SetDebugLogger(nil)
		return nil
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logger = built

	sugar := logger.Sugar()
	git.SetDebugLogger(sugar.Debugf)
	fragment.SetDebugLogger(sugar.Debugf)
	return nil
}

// getLogger returns the process logger, a no-op logger before initLogger ran.
func getLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Execute runs the root command and prints any error with remediation
// steps. The returned error maps to an exit code via ExitCodeFor.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	return report(rootCmd, err)
}

// report prints err to the command's stderr and returns the error whose
// exit code the process should use.
func report(cmd *cobra.Command, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	cliErr := classify(err)
	clierrors.FprintError(cmd.ErrOrStderr(), cliErr, !showPlainFlag)
	return cliErr
}

// exactArgs is cobra.ExactArgs with a CLIError that shows the usage line.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("accepts %d arg(s), received %d", n, len(args)),
			cmd.UseLine(),
		)
	}
}

// formatNames lists the accepted --format values.
func formatNames() []string {
	return []string{
		string(changelog.FormatMarkdown),
		string(changelog.FormatJSON),
		string(changelog.FormatYAML),
		string(changelog.FormatTerminal),
	}
}
