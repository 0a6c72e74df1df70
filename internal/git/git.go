// Package git provides the repository facts cl needs: the repository root
// (where CHANGELOG.md and .cl/ live), the current branch (the fragment
// context) and staging of files it writes. It uses the pure Go go-git
// library, so no git binary is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	// ErrNotRepository is returned when no repository encloses the directory.
	ErrNotRepository = errors.New("not a git repository")
	// ErrDetachedHead is returned when HEAD does not point at a branch.
	ErrDetachedHead = errors.New("HEAD is detached")
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the git repository enclosing path, walking up the
// directory tree (DetectDotGit). If path is empty, the current working
// directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// GetCurrentBranchAt returns the current branch of the repository enclosing
// dir. A branch without commits yet is still reported; a detached HEAD
// returns ErrDetachedHead.
func GetCurrentBranchAt(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	// Read HEAD unresolved so an unborn branch (fresh repository) still has a name.
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		logDebug("[git] GetCurrentBranchAt: detached HEAD state")
		return "", ErrDetachedHead
	}

	branch := head.Target().Short()
	logDebug("[git] GetCurrentBranchAt: %s", branch)
	return branch, nil
}

// GetRepositoryRoot returns the absolute path to the repository root.
func GetRepositoryRoot() (string, error) {
	return GetRepositoryRootAt("")
}

// GetRepositoryRootAt returns the root of the repository enclosing dir.
func GetRepositoryRootAt(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] GetRepositoryRoot: %s", root)
	return root, nil
}

// StagePath adds the file at rel (relative to the repository root) to the
// index of the repository rooted at root, like "git add <rel>".
func StagePath(root, rel string) error {
	repo, err := openRepo(root)
	if err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	rel = filepath.ToSlash(filepath.Clean(rel))
	if _, err := worktree.Add(rel); err != nil {
		return fmt.Errorf("staging %s: %w", rel, err)
	}

	logDebug("[git] staged %s", rel)
	return nil
}
