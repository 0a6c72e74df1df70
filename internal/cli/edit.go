package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	clierrors "github.com/ariel-frischer/cl/internal/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the current branch's fragment file in your editor",
	Long: `Open the fragment file of the current branch in $VISUAL, or $EDITOR when
VISUAL is unset. The file is checked after the editor exits and staged when
staging is enabled.`,
	Example: `  EDITOR=vim cl edit`,
	Args:    exactArgs(0),
	RunE:    runEdit,
}

// runEditor starts the editor and waits for it, replaced in tests.
var runEditor = func(cmd *cobra.Command, editor []string, path string) error {
	c := exec.Command(editor[0], append(editor[1:], path)...)
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	return c.Run()
}

func init() {
	editCmd.GroupID = GroupChanges
	rootCmd.AddCommand(editCmd)
}

// editorCommand returns $VISUAL or $EDITOR split into program and arguments.
func editorCommand() []string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(key)); len(fields) > 0 {
			return fields
		}
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	editor := editorCommand()
	if editor == nil {
		return clierrors.EditorNotSet()
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	context, err := ws.context()
	if err != nil {
		return err
	}
	rel, err := ws.engine.FragmentPath(context)
	if err != nil {
		return err
	}

	path := ws.abs(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	ws.logger.Debug("launching editor", zap.Strings("editor", editor), zap.String("path", path))
	if err := runEditor(cmd, editor, path); err != nil {
		return fmt.Errorf("running %s: %w", editor[0], err)
	}

	changes, err := ws.store.Read(context)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		ws.stage(rel)
	}
	ws.logger.Debug("fragment edited", zap.String("context", context), zap.Int("changes", len(changes)))
	return nil
}
