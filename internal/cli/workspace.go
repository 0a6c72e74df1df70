package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/ariel-frischer/cl/internal/aggregate"
	"github.com/ariel-frischer/cl/internal/config"
	"github.com/ariel-frischer/cl/internal/fragment"
	"github.com/ariel-frischer/cl/internal/git"
	"github.com/ariel-frischer/cl/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Git access, replaced in tests.
var (
	repositoryRoot = git.GetRepositoryRoot
	currentBranch  = git.GetCurrentBranchAt
	stagePath      = git.StagePath
)

// workspace bundles everything a command needs to work on one repository.
type workspace struct {
	root   string
	cfg    *config.Configuration
	store  *fragment.Store
	engine *aggregate.Engine
	logger *zap.Logger
	stderr io.Writer
}

// openWorkspace locates the repository, loads its configuration and wires the
// storage, fragment store and engine rooted at it.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	root, err := repositoryRoot()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:    root,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	fsys, err := storage.NewFS(root)
	if err != nil {
		return nil, err
	}

	log := getLogger()
	store := fragment.NewStore(fsys, filepath.ToSlash(cfg.FragmentDir))
	engine := aggregate.New(fsys, store, aggregate.Options{
		DocumentPath: filepath.ToSlash(cfg.ChangelogPath),
		Logger:       log,
	})

	log.Debug("opened workspace",
		zap.String("root", root),
		zap.String("changelog", engine.DocumentPath()),
		zap.String("fragments", store.Root()))

	return &workspace{
		root:   root,
		cfg:    cfg,
		store:  store,
		engine: engine,
		logger: log,
		stderr: cmd.ErrOrStderr(),
	}, nil
}

// context returns the fragment context of the checked out branch.
func (w *workspace) context() (string, error) {
	return currentBranch(w.root)
}

// stage adds rel to the git index when staging is enabled. A failure is
// reported as a warning since the file itself was written.
func (w *workspace) stage(rel string) {
	if !w.cfg.Stage {
		return
	}
	if err := stagePath(w.root, rel); err != nil {
		w.logger.Warn("staging failed", zap.String("path", rel), zap.Error(err))
		fmt.Fprintf(w.stderr, "Warning: could not stage %s: %v\n", rel, err)
		return
	}
	w.logger.Debug("staged", zap.String("path", rel))
}

// abs returns the absolute filesystem path of a repository-relative path.
func (w *workspace) abs(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}
