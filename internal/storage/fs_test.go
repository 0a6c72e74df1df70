package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestNewFS(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := NewFS(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrStorage)
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		_, err := NewFS(file)
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestFS_WriteAndRead(t *testing.T) {
	s := newTestFS(t)

	content := []byte("# Changelog\n")
	require.NoError(t, s.Write("CHANGELOG.md", content))

	got, err := s.Read("CHANGELOG.md")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	require.NoError(t, s.Write("CHANGELOG.md", []byte("replaced")))
	got, err = s.Read("CHANGELOG.md")
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(got))
}

func TestFS_WriteCreatesParents(t *testing.T) {
	s := newTestFS(t)

	require.NoError(t, s.Write(".cl/feature/login.yml", []byte("[]\n")))

	info, err := os.Stat(filepath.Join(s.Root(), ".cl", "feature"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFS_WriteLeavesNoTempFiles(t *testing.T) {
	s := newTestFS(t)
	require.NoError(t, s.Write("a.yml", []byte("x")))

	entries, err := s.List("")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "a.yml"}}, entries)
}

func TestFS_ReadMissing(t *testing.T) {
	s := newTestFS(t)

	_, err := s.Read("missing.md")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
	assert.NotErrorIs(t, err, ErrStorage)
}

func TestFS_ReadDirectoryIsStorageError(t *testing.T) {
	s := newTestFS(t)
	require.NoError(t, os.Mkdir(filepath.Join(s.Root(), "dir"), 0o755))

	_, err := s.Read("dir")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestFS_Delete(t *testing.T) {
	s := newTestFS(t)
	require.NoError(t, s.Write("sub/a.yml", []byte("x")))

	err := s.Delete("sub")
	assert.ErrorIs(t, err, ErrStorage, "non-empty directory must not be removed")

	require.NoError(t, s.Delete("sub/a.yml"))
	_, err = s.Read("sub/a.yml")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete("sub"))
	_, err = s.List("sub")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete("sub"), ErrNotFound)
	assert.ErrorIs(t, s.Delete(""), ErrStorage)
}

func TestFS_List(t *testing.T) {
	s := newTestFS(t)
	require.NoError(t, s.Write("b.yml", []byte("b")))
	require.NoError(t, s.Write("a.yml", []byte("a")))
	require.NoError(t, s.Write("nested/c.yml", []byte("c")))

	entries, err := s.List("")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "a.yml"},
		{Name: "b.yml"},
		{Name: "nested", IsDir: true},
	}, entries)

	_, err = s.List("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFS_Abs(t *testing.T) {
	s := newTestFS(t)

	tests := map[string]struct {
		rel     string
		want    string
		wantErr bool
	}{
		"empty is root":      {rel: "", want: s.Root()},
		"simple":             {rel: "CHANGELOG.md", want: filepath.Join(s.Root(), "CHANGELOG.md")},
		"nested":             {rel: ".cl/main.yml", want: filepath.Join(s.Root(), ".cl", "main.yml")},
		"dot segments clean": {rel: ".cl/../CHANGELOG.md", want: filepath.Join(s.Root(), "CHANGELOG.md")},
		"traversal":          {rel: "../outside", wantErr: true},
		"deep traversal":     {rel: ".cl/../../outside", wantErr: true},
		"absolute":           {rel: "/etc/passwd", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := s.Abs(tt.rel)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrStorage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
