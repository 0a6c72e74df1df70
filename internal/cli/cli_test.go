package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariel-frischer/cl/internal/config"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// testRepo is a throwaway git repository the CLI runs in.
type testRepo struct {
	dir  string
	repo *git.Repository
}

// isolateEnv keeps the developer's config and editor out of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	unsetenv(t, "VISUAL")
	unsetenv(t, "EDITOR")
	for _, key := range config.Keys() {
		unsetenv(t, config.EnvPrefix+strings.ToUpper(key))
	}
}

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

// newTestRepo creates a repository with one commit on "main" and makes it
// the working directory.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	isolateEnv(t)

	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	require.NoError(t, err)

	r := &testRepo{dir: dir, repo: repo}
	r.write(t, "README.md", "# Test\n")
	wt := r.worktree(t)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com"},
	})
	require.NoError(t, err)

	t.Chdir(dir)
	return r
}

func (r *testRepo) worktree(t *testing.T) *git.Worktree {
	t.Helper()
	wt, err := r.repo.Worktree()
	require.NoError(t, err)
	return wt
}

func (r *testRepo) write(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(r.dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (r *testRepo) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func (r *testRepo) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(r.dir, filepath.FromSlash(rel)))
	return err == nil
}

// checkout switches to a new branch, keeping the working tree.
func (r *testRepo) checkout(t *testing.T, branch string) {
	t.Helper()
	require.NoError(t, r.worktree(t).Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
		Keep:   true,
	}))
}

// detach checks out the HEAD commit directly.
func (r *testRepo) detach(t *testing.T) {
	t.Helper()
	head, err := r.repo.Head()
	require.NoError(t, err)
	require.NoError(t, r.worktree(t).Checkout(&git.CheckoutOptions{Hash: head.Hash(), Keep: true}))
}

// staging returns the index status of rel.
func (r *testRepo) staging(t *testing.T, rel string) git.StatusCode {
	t.Helper()
	status, err := r.worktree(t).Status()
	require.NoError(t, err)
	return status.File(rel).Staging
}

// result is the outcome of one CLI invocation.
type result struct {
	stdout string
	stderr string
	code   int
}

// run executes the cl command line with args in the current directory.
func run(t *testing.T, args ...string) result {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), code: ExitCodeFor(err)}
}

// resetFlags restores every flag of cmd and its subcommands to its default,
// since rootCmd is shared between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// mustRun runs args and fails the test on a non-zero exit code.
func mustRun(t *testing.T, args ...string) result {
	t.Helper()
	res := run(t, args...)
	require.Equal(t, ExitSuccess, res.code, "cl %s failed: %s", strings.Join(args, " "), res.stderr)
	return res
}
