// Package testutil provides test doubles shared by the cl packages.
package testutil

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/ariel-frischer/cl/internal/storage"
)

// Op names a storage.Provider method.
type Op string

const (
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpDelete Op = "delete"
	OpList   Op = "list"
)

// Call records one provider invocation.
type Call struct {
	Op   Op
	Path string
}

type failure struct {
	op   Op
	path string // empty matches every path
	err  error
}

// MemoryProvider is an in-memory storage.Provider. Directories exist
// implicitly as parents of written files and can be removed once empty,
// mirroring the filesystem provider.
type MemoryProvider struct {
	mu       sync.Mutex
	files    map[string][]byte
	dirs     map[string]bool
	calls    []Call
	failures []failure
}

// NewMemoryProvider creates an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// FailOn makes every op on p (or on any path when p is empty) return err
// wrapped in storage.ErrStorage.
func (m *MemoryProvider) FailOn(op Op, p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, failure{op: op, path: clean(p), err: err})
}

// ClearFailures removes all injected failures.
func (m *MemoryProvider) ClearFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = nil
}

// Calls returns a copy of the recorded invocations.
func (m *MemoryProvider) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CountCalls returns how many times op was invoked.
func (m *MemoryProvider) CountCalls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Files returns the stored file paths, sorted.
func (m *MemoryProvider) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Dirs returns the existing directory paths, sorted.
func (m *MemoryProvider) Dirs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.dirs))
	for p := range m.dirs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Put stores content without recording a call, for test setup.
func (m *MemoryProvider) Put(p string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(clean(p), []byte(content))
}

// Get returns stored content without recording a call.
func (m *MemoryProvider) Get(p string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[clean(p)]
	return string(data), ok
}

func (m *MemoryProvider) Read(p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	if err := m.record(OpRead, p); err != nil {
		return nil, err
	}
	data, ok := m.files[p]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", p, storage.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryProvider) Write(p string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	if err := m.record(OpWrite, p); err != nil {
		return err
	}
	if m.dirs[p] {
		return fmt.Errorf("%w: write %s: is a directory", storage.ErrStorage, p)
	}
	m.put(p, content)
	return nil
}

func (m *MemoryProvider) Delete(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	if err := m.record(OpDelete, p); err != nil {
		return err
	}
	if _, ok := m.files[p]; ok {
		delete(m.files, p)
		return nil
	}
	if !m.dirs[p] {
		return fmt.Errorf("delete %s: %w", p, storage.ErrNotFound)
	}
	if len(m.children(p)) > 0 {
		return fmt.Errorf("%w: delete %s: directory not empty", storage.ErrStorage, p)
	}
	delete(m.dirs, p)
	return nil
}

func (m *MemoryProvider) List(dir string) ([]storage.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir = clean(dir)
	if err := m.record(OpList, dir); err != nil {
		return nil, err
	}
	if dir != "" && !m.dirs[dir] {
		return nil, fmt.Errorf("list %s: %w", dir, storage.ErrNotFound)
	}
	return m.children(dir), nil
}

func (m *MemoryProvider) record(op Op, p string) error {
	m.calls = append(m.calls, Call{Op: op, Path: p})
	for _, f := range m.failures {
		if f.op == op && (f.path == "" || f.path == p) {
			return fmt.Errorf("%w: %s %s: %w", storage.ErrStorage, op, p, f.err)
		}
	}
	return nil
}

func (m *MemoryProvider) put(p string, content []byte) {
	m.files[p] = append([]byte(nil), content...)
	for d := path.Dir(p); d != "." && d != "/"; d = path.Dir(d) {
		m.dirs[d] = true
	}
}

func (m *MemoryProvider) children(dir string) []storage.Entry {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	var out []storage.Entry
	for p := range m.files {
		if rest, ok := strings.CutPrefix(p, prefix); ok && !strings.Contains(rest, "/") {
			out = append(out, storage.Entry{Name: rest})
		}
	}
	for d := range m.dirs {
		if rest, ok := strings.CutPrefix(d, prefix); ok && rest != "" && !strings.Contains(rest, "/") {
			out = append(out, storage.Entry{Name: rest, IsDir: true})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func clean(p string) string {
	if p == "" {
		return ""
	}
	c := path.Clean(p)
	if c == "." {
		return ""
	}
	return c
}

var _ storage.Provider = (*MemoryProvider)(nil)
