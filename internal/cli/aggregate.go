package cli

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/cl/internal/aggregate"
	clierrors "github.com/ariel-frischer/cl/internal/errors"
	"github.com/spf13/cobra"
)

var aggregateModeFlag string

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Fold all pending fragments into the Unreleased section",
	Long: `Fold the fragments of every branch into the Unreleased section of the
changelog, then delete the fragment files.

With --mode replace (the default) the Unreleased section is rebuilt from the
fragments alone. With --mode merge the fragments are appended to the entries
already in it. Fragments are only deleted after the changelog was written.`,
	Example: `  cl aggregate
  cl aggregate --mode merge`,
	Args: exactArgs(0),
	RunE: runAggregate,
}

func init() {
	aggregateCmd.GroupID = GroupRelease
	aggregateCmd.Flags().StringVar(&aggregateModeFlag, "mode", "", "Aggregate mode: "+strings.Join(modeNames(), " or ")+" (default from config)")
	rootCmd.AddCommand(aggregateCmd)
}

func modeNames() []string {
	var names []string
	for _, m := range aggregate.Modes() {
		names = append(names, string(m))
	}
	return names
}

func runAggregate(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	name := ws.cfg.AggregateMode
	if cmd.Flags().Changed("mode") {
		name = aggregateModeFlag
	}
	mode, err := aggregate.ParseMode(name)
	if err != nil {
		return clierrors.InvalidMode(name, err)
	}

	result, err := ws.engine.Aggregate(mode)
	if err != nil {
		return err
	}
	if result.Written {
		ws.stage(ws.engine.DocumentPath())
	}

	out := cmd.OutOrStdout()
	switch {
	case result.Consumed == 0 && !result.Written:
		fmt.Fprintln(out, "Nothing to aggregate")
	case len(result.Contexts) == 0:
		fmt.Fprintf(out, "Updated %s\n", ws.engine.DocumentPath())
	default:
		fmt.Fprintf(out, "Aggregated %d change(s) from %s into %s\n",
			result.Consumed, strings.Join(result.Contexts, ", "), ws.engine.DocumentPath())
	}
	return nil
}
