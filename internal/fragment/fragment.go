// Package fragment persists pending changelog entries outside CHANGELOG.md,
// one YAML list per working context (typically the current branch), so that
// contributors on different branches never edit the same file.
package fragment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/cl/internal/changelog"
	"github.com/ariel-frischer/cl/internal/storage"
)

// Ext is the file extension of a fragment container.
const Ext = ".yml"

// DefaultDir is the fragment root relative to the repository root.
const DefaultDir = ".cl"

var (
	// ErrCorruptFragment is returned when a container cannot be decoded.
	ErrCorruptFragment = errors.New("corrupt fragment")
	// ErrInvalidContext is returned for a context identifier that cannot name a container.
	ErrInvalidContext = errors.New("invalid context")
)

// CorruptFragmentError names the context whose container failed to decode.
type CorruptFragmentError struct {
	Context string
	// Path is the container path relative to the storage root.
	Path string
	Err  error
}

func (e *CorruptFragmentError) Error() string {
	return fmt.Sprintf("corrupt fragment for context %q: %v", e.Context, e.Err)
}

func (e *CorruptFragmentError) Is(target error) bool {
	return target == ErrCorruptFragment
}

func (e *CorruptFragmentError) Unwrap() error {
	return e.Err
}

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger sets the debug logging function for fragment operations.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Fragments is the content of one context's container.
type Fragments struct {
	Context string
	Changes []changelog.Change
}

// Store reads and writes fragment containers through a storage.Provider.
// It performs no locking: concurrent appends to one context must be
// serialized by the caller.
type Store struct {
	provider storage.Provider
	root     string
}

// NewStore creates a Store whose containers live under root (provider-relative).
func NewStore(provider storage.Provider, root string) *Store {
	if root == "" {
		root = DefaultDir
	}
	return &Store{provider: provider, root: path.Clean(root)}
}

// Root returns the provider-relative fragment directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the container path for context, e.g. ".cl/feature/login.yml".
// Slashes in the context (branch names like "feature/login") become directories.
func (s *Store) Path(context string) (string, error) {
	if err := validateContext(context); err != nil {
		return "", err
	}
	return path.Join(s.root, context+Ext), nil
}

func validateContext(context string) error {
	if strings.TrimSpace(context) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidContext)
	}
	if strings.ContainsAny(context, "\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidContext, context)
	}
	for _, seg := range strings.Split(context, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidContext, context)
		}
	}
	return nil
}

// Read returns the changes recorded for one context in insertion order.
// A context without a container has no changes.
func (s *Store) Read(context string) ([]changelog.Change, error) {
	p, err := s.Path(context)
	if err != nil {
		return nil, err
	}
	return s.readContainer(context, p)
}

// Append adds a change to the end of context's container, creating it if needed.
func (s *Store) Append(context string, c changelog.Change) error {
	p, err := s.Path(context)
	if err != nil {
		return err
	}
	changes, err := s.readContainer(context, p)
	if err != nil {
		return err
	}
	changes = append(changes, c)

	data, err := encode(changes)
	if err != nil {
		return fmt.Errorf("encode fragments for %q: %w", context, err)
	}
	if err := s.provider.Write(p, data); err != nil {
		return fmt.Errorf("write fragments for %q: %w", context, err)
	}
	logDebug("appended %s entry to %s (%d total)", c.Category.Key(), p, len(changes))
	return nil
}

// ReadAll returns every context's changes concatenated. Contexts are visited
// in identifier order; within a context, insertion order is kept.
// Any corrupt container fails the whole read.
func (s *Store) ReadAll() ([]changelog.Change, error) {
	groups, err := s.ReadGroups()
	if err != nil {
		return nil, err
	}
	var out []changelog.Change
	for _, g := range groups {
		out = append(out, g.Changes...)
	}
	return out, nil
}

// ReadGroups returns the fragments of every context, sorted by context.
func (s *Store) ReadGroups() ([]Fragments, error) {
	contexts, err := s.Contexts()
	if err != nil {
		return nil, err
	}
	groups := make([]Fragments, 0, len(contexts))
	for _, ctx := range contexts {
		changes, err := s.readContainer(ctx, path.Join(s.root, ctx+Ext))
		if err != nil {
			return nil, err
		}
		groups = append(groups, Fragments{Context: ctx, Changes: changes})
	}
	return groups, nil
}

// Contexts lists the context identifiers that have a container, sorted.
func (s *Store) Contexts() ([]string, error) {
	var contexts []string
	err := s.walk("", func(rel string, isDir bool) error {
		if !isDir && strings.HasSuffix(rel, Ext) {
			contexts = append(contexts, strings.TrimSuffix(rel, Ext))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(contexts)
	return contexts, nil
}

// ClearAll deletes every container and every directory left empty under the
// root. The root itself is kept. It returns the cleared contexts.
func (s *Store) ClearAll() ([]string, error) {
	contexts, err := s.Contexts()
	if err != nil {
		return nil, err
	}
	for _, ctx := range contexts {
		p := path.Join(s.root, ctx+Ext)
		if err := s.provider.Delete(p); err != nil && !storage.IsNotFound(err) {
			return nil, fmt.Errorf("clear fragments for %q: %w", ctx, err)
		}
		logDebug("removed %s", p)
	}
	if _, err := s.pruneDirs(s.root); err != nil {
		return nil, err
	}
	return contexts, nil
}

// pruneDirs removes empty subdirectories of dir bottom-up and reports
// whether dir itself ended up empty.
func (s *Store) pruneDirs(dir string) (bool, error) {
	entries, err := s.provider.List(dir)
	if err != nil {
		if storage.IsNotFound(err) {
			return true, nil
		}
		return false, fmt.Errorf("list %s: %w", dir, err)
	}
	empty := true
	for _, e := range entries {
		if !e.IsDir {
			empty = false
			continue
		}
		child := path.Join(dir, e.Name)
		childEmpty, err := s.pruneDirs(child)
		if err != nil {
			return false, err
		}
		if !childEmpty {
			empty = false
			continue
		}
		if err := s.provider.Delete(child); err != nil && !storage.IsNotFound(err) {
			return false, fmt.Errorf("remove %s: %w", child, err)
		}
		logDebug("removed empty directory %s", child)
	}
	return empty, nil
}

// walk visits every entry below the root with its root-relative path.
// A missing root is an empty store.
func (s *Store) walk(rel string, fn func(rel string, isDir bool) error) error {
	dir := path.Join(s.root, rel)
	entries, err := s.provider.List(dir)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("list %s: %w", dir, err)
	}
	for _, e := range entries {
		child := path.Join(rel, e.Name)
		if err := fn(child, e.IsDir); err != nil {
			return err
		}
		if e.IsDir {
			if err := s.walk(child, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) readContainer(context, p string) ([]changelog.Change, error) {
	data, err := s.provider.Read(p)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read fragments for %q: %w", context, err)
	}
	changes, err := decode(data)
	if err != nil {
		return nil, &CorruptFragmentError{Context: context, Path: p, Err: err}
	}
	return changes, nil
}

// storedChange mirrors changelog.Change with a pointer category so a missing
// key is detected instead of decoding as Added.
type storedChange struct {
	Category    *changelog.Category `yaml:"category"`
	Description string              `yaml:"description"`
}

func decode(data []byte) ([]changelog.Change, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var stored []storedChange
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&stored); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	changes := make([]changelog.Change, 0, len(stored))
	for i, sc := range stored {
		if sc.Category == nil {
			return nil, fmt.Errorf("entry %d: missing category", i+1)
		}
		c, err := changelog.NewChange(*sc.Category, sc.Description)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		changes = append(changes, c)
	}
	return changes, nil
}

func encode(changes []changelog.Change) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(changes); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
