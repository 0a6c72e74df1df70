package cli

import (
	"github.com/ariel-frischer/cl/internal/aggregate"
	"github.com/ariel-frischer/cl/internal/changelog"
	clierrors "github.com/ariel-frischer/cl/internal/errors"
	"github.com/spf13/cobra"
)

// runShow prints every pending change: the Unreleased entries already in the
// changelog followed by all fragments, merged into one release.
func runShow(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	name := ws.cfg.Format
	if cmd.Flags().Changed("format") {
		name = showFormatFlag
	}
	format, err := changelog.ParseFormat(name)
	if err != nil {
		return clierrors.InvalidFormat(name, formatNames(), err)
	}

	return ws.engine.Show(cmd.OutOrStdout(), aggregate.ShowOptions{
		Format:          format,
		IncludeHeadings: !showNoHeadingsFlag,
		Plain:           showPlainFlag,
	})
}
