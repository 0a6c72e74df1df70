package cli

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/cl/internal/changelog"
	clierrors "github.com/ariel-frischer/cl/internal/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	for _, c := range changelog.Categories() {
		rootCmd.AddCommand(newRecordCmd(c))
	}
}

// newRecordCmd returns the command recording a change in category c,
// e.g. "cl fixed <description>" with the alias "cl fix".
func newRecordCmd(c changelog.Category) *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.Key() + " <description>",
		Short: fmt.Sprintf("Record a change under %q for the current branch", c.String()),
		Long: fmt.Sprintf(`Record a change under %q in the fragment file of the current branch.

All remaining arguments are joined with spaces to form the description, so
quoting is optional.`, c.String()),
		Example: fmt.Sprintf("  cl %s \"Support for dark mode\"", c.Key()),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, c, args)
		},
	}
	if alias := c.Alias(); alias != "" {
		cmd.Aliases = []string{alias}
	}
	cmd.GroupID = GroupChanges
	return cmd
}

func runRecord(cmd *cobra.Command, c changelog.Category, args []string) error {
	description := strings.Join(args, " ")
	if strings.TrimSpace(description) == "" {
		return clierrors.MissingDescription(c.Key())
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	context, err := ws.context()
	if err != nil {
		return err
	}

	change, err := ws.engine.RecordChange(context, c.Key(), description)
	if err != nil {
		return err
	}

	path, err := ws.engine.FragmentPath(context)
	if err != nil {
		return err
	}
	ws.stage(path)

	ws.logger.Debug("recorded",
		zap.String("context", context),
		zap.String("category", change.Category.Key()),
		zap.String("path", path),
		zap.String("summary", changelog.FormatChangeSummary(change, changelog.FormatOptions{Plain: true})))
	return nil
}
