package cli

import (
	"fmt"

	"github.com/ariel-frischer/cl/internal/changelog"
	clierrors "github.com/ariel-frischer/cl/internal/errors"
	"github.com/spf13/cobra"
)

var yankCmd = &cobra.Command{
	Use:   "yank <version>",
	Short: "Mark a release as yanked",
	Long: `Mark a release in the changelog as yanked, rendering its heading as
"## [1.2.0] - 2024-01-31 [YANKED]". A leading "v" in the version is accepted.`,
	Example: `  cl yank 1.2.0
  cl yank v1.2.0`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetYanked(cmd, args[0], true)
	},
}

var unyankCmd = &cobra.Command{
	Use:     "unyank <version>",
	Short:   "Remove the yanked marker from a release",
	Example: `  cl unyank 1.2.0`,
	Args:    exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetYanked(cmd, args[0], false)
	},
}

func init() {
	yankCmd.GroupID = GroupRelease
	unyankCmd.GroupID = GroupRelease
	rootCmd.AddCommand(yankCmd)
	rootCmd.AddCommand(unyankCmd)
}

func runSetYanked(cmd *cobra.Command, version string, yanked bool) error {
	if _, err := changelog.ParseVersion(version); err != nil {
		return clierrors.InvalidVersion(cmd.Name(), version, err)
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	var r *changelog.Release
	if yanked {
		r, err = ws.engine.Yank(version)
	} else {
		r, err = ws.engine.Unyank(version)
	}
	if err != nil {
		return err
	}
	ws.stage(ws.engine.DocumentPath())

	if r.Yanked {
		fmt.Fprintf(cmd.OutOrStdout(), "Release %s is marked as yanked\n", r.Version)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Release %s is no longer yanked\n", r.Version)
	}
	return nil
}
