// Package aggregate ties the changelog document and the fragment store
// together: it records new entries, shows everything pending, folds fragments
// into the Unreleased section and marks releases as yanked.
//
// Every operation is one synchronous read-modify-write cycle. The document is
// written in a single atomic step and fragments are deleted only after that
// write succeeded, so a failure never leaves a half-applied aggregate behind.
package aggregate

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ariel-frischer/cl/internal/changelog"
	"github.com/ariel-frischer/cl/internal/fragment"
	"github.com/ariel-frischer/cl/internal/storage"
)

// DefaultDocumentPath is the changelog location relative to the repository root.
const DefaultDocumentPath = "CHANGELOG.md"

// Engine performs the changelog operations.
type Engine struct {
	documents    storage.Provider
	documentPath string
	fragments    *fragment.Store
	logger       *zap.Logger
}

// Options configures an Engine.
type Options struct {
	// DocumentPath is the provider-relative changelog path. Defaults to CHANGELOG.md.
	DocumentPath string
	// Logger receives structured events. Defaults to a no-op logger.
	Logger *zap.Logger
}

// New creates an Engine reading and writing the document through docs and
// pending entries through fragments.
func New(docs storage.Provider, fragments *fragment.Store, opts Options) *Engine {
	e := &Engine{
		documents:    docs,
		documentPath: opts.DocumentPath,
		fragments:    fragments,
		logger:       opts.Logger,
	}
	if e.documentPath == "" {
		e.documentPath = DefaultDocumentPath
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// DocumentPath returns the provider-relative changelog path.
func (e *Engine) DocumentPath() string {
	return e.documentPath
}

// Document is a loaded changelog plus the bytes it was parsed from.
type Document struct {
	*changelog.Changelog
	// Exists is false when there was no document yet.
	Exists bool
	raw    []byte
}

// Load reads and parses the changelog. A missing document loads as an empty
// changelog with Exists false.
func (e *Engine) Load() (*Document, error) {
	raw, err := e.documents.Read(e.documentPath)
	if err != nil {
		if storage.IsNotFound(err) {
			e.logger.Debug("changelog does not exist yet", zap.String("path", e.documentPath))
			return &Document{Changelog: &changelog.Changelog{}}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", e.documentPath, err)
	}
	cl, err := changelog.Parse(raw)
	if err != nil {
		var parseErr *changelog.ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = e.documentPath
		}
		return nil, fmt.Errorf("parsing %s: %w", e.documentPath, err)
	}
	e.logger.Debug("changelog loaded",
		zap.String("path", e.documentPath),
		zap.Int("releases", len(cl.ListVersions())),
		zap.Int("entries", cl.EntryCount()))
	return &Document{Changelog: cl, Exists: true, raw: raw}, nil
}

// save renders doc and writes it unless the bytes are unchanged.
// It reports whether a write happened.
func (e *Engine) save(doc *Document) (bool, error) {
	if !doc.Exists && doc.Preamble == "" {
		doc.Preamble = changelog.DefaultPreamble
	}
	out := changelog.Render(doc.Changelog)
	if doc.Exists && bytes.Equal(out, doc.raw) {
		e.logger.Debug("changelog unchanged, skipping write", zap.String("path", e.documentPath))
		return false, nil
	}
	if err := e.documents.Write(e.documentPath, out); err != nil {
		return false, fmt.Errorf("writing %s: %w", e.documentPath, err)
	}
	doc.Exists = true
	doc.raw = out
	e.logger.Debug("changelog written", zap.String("path", e.documentPath), zap.Int("bytes", len(out)))
	return true, nil
}

// RecordChange stores a new fragment for context. categoryText accepts the
// category names case-insensitively and the verb aliases add, change,
// deprecate, remove and fix.
func (e *Engine) RecordChange(context, categoryText, description string) (changelog.Change, error) {
	category, err := changelog.LookupCategory(categoryText)
	if err != nil {
		return changelog.Change{}, err
	}
	c, err := changelog.NewChange(category, description)
	if err != nil {
		return changelog.Change{}, err
	}
	if err := e.fragments.Append(context, c); err != nil {
		return changelog.Change{}, err
	}
	e.logger.Info("recorded change",
		zap.String("context", context),
		zap.String("category", category.Key()))
	return c, nil
}

// FragmentPath returns the container path that RecordChange writes for context.
func (e *Engine) FragmentPath(context string) (string, error) {
	return e.fragments.Path(context)
}

// Pending returns the entries already in the document's Unreleased section
// (canonical category order) followed by every fragment.
func (e *Engine) Pending() ([]changelog.Change, error) {
	doc, err := e.Load()
	if err != nil {
		return nil, err
	}
	var pending []changelog.Change
	if u := doc.Unreleased(); u != nil {
		pending = append(pending, u.Changes()...)
	}
	fragments, err := e.fragments.ReadAll()
	if err != nil {
		return nil, err
	}
	return append(pending, fragments...), nil
}

// Result summarizes an Aggregate run.
type Result struct {
	Mode Mode
	// Release is the Unreleased section as written.
	Release changelog.Release
	// Consumed is the number of fragments folded in.
	Consumed int
	// Contexts lists the contexts whose containers were cleared.
	Contexts []string
	// Written is false when the rendered document was byte-identical.
	Written bool
}

// Aggregate folds every fragment into the Unreleased section, persists the
// document and then clears the fragment store. In ModeReplace the Unreleased
// section is rebuilt from the fragments alone; in ModeMerge the existing
// entries come first. Fragments are untouched if anything before the clear
// fails.
func (e *Engine) Aggregate(mode Mode) (*Result, error) {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	doc, err := e.Load()
	if err != nil {
		return nil, err
	}
	fragments, err := e.fragments.ReadAll()
	if err != nil {
		return nil, err
	}

	var changes []changelog.Change
	if u := doc.Unreleased(); u != nil && mode == ModeMerge {
		changes = append(changes, u.Changes()...)
	}
	changes = append(changes, fragments...)

	release := changelog.BuildRelease(changes)
	doc.SetUnreleased(release)

	written, err := e.save(doc)
	if err != nil {
		return nil, err
	}

	contexts, err := e.fragments.ClearAll()
	if err != nil {
		return nil, fmt.Errorf("%s was updated but fragments were not cleared: %w", e.documentPath, err)
	}

	e.logger.Info("aggregated fragments",
		zap.String("mode", string(mode)),
		zap.Int("fragments", len(fragments)),
		zap.Strings("contexts", contexts),
		zap.Bool("written", written))

	return &Result{
		Mode:     mode,
		Release:  release,
		Consumed: len(fragments),
		Contexts: contexts,
		Written:  written,
	}, nil
}

// Yank marks the release with the given version as yanked and persists the
// document. The version may carry a "v" prefix. Yanking an already yanked
// release succeeds without writing.
func (e *Engine) Yank(version string) (*changelog.Release, error) {
	return e.setYanked(version, true)
}

// Unyank clears the yanked marker of a release.
func (e *Engine) Unyank(version string) (*changelog.Release, error) {
	return e.setYanked(version, false)
}

func (e *Engine) setYanked(version string, yanked bool) (*changelog.Release, error) {
	if _, err := changelog.ParseVersion(version); err != nil {
		return nil, err
	}
	doc, err := e.Load()
	if err != nil {
		return nil, err
	}
	r, err := doc.FindRelease(version)
	if err != nil {
		return nil, err
	}
	if r.Yanked == yanked {
		e.logger.Debug("yank state already set",
			zap.String("version", r.Version.String()),
			zap.Bool("yanked", yanked))
		return r, nil
	}
	r.Yanked = yanked
	if _, err := e.save(doc); err != nil {
		return nil, err
	}
	e.logger.Info("updated release",
		zap.String("version", r.Version.String()),
		zap.Bool("yanked", yanked))
	return r, nil
}
