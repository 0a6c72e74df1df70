package aggregate

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/cl/internal/changelog"
)

// unreleasedHeadingLine is removed from markdown output without headings.
const unreleasedHeadingLine = "## [Unreleased]\n"

// ShowOptions controls how pending changes are displayed.
type ShowOptions struct {
	Format changelog.Format
	// IncludeHeadings keeps the "## [Unreleased]" line (markdown, terminal)
	// or the "---" document marker (yaml). It has no effect on json.
	IncludeHeadings bool
	// Plain disables colors in the terminal format.
	Plain bool
	// MaxWidth wraps terminal output; 0 uses the terminal width.
	MaxWidth int
}

// Show writes every pending change (existing Unreleased entries followed by
// all fragments) in the requested format. It never modifies storage.
// Output has leading blank lines and trailing whitespace removed and ends in
// a single newline, or is empty when there is nothing to print.
func (e *Engine) Show(w io.Writer, opts ShowOptions) error {
	pending, err := e.Pending()
	if err != nil {
		return err
	}
	out, err := FormatPending(pending, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// FormatPending builds an Unreleased release from changes and encodes it.
func FormatPending(changes []changelog.Change, opts ShowOptions) ([]byte, error) {
	release := changelog.BuildRelease(changes)

	var out string
	switch opts.Format {
	case changelog.FormatMarkdown, "":
		out = changelog.RenderRelease(&release)
		if !opts.IncludeHeadings {
			out = strings.Replace(out, unreleasedHeadingLine, "", 1)
		}
	case changelog.FormatJSON:
		b, err := changelog.EncodeJSON(release.Changes())
		if err != nil {
			return nil, err
		}
		out = string(b)
	case changelog.FormatYAML:
		b, err := changelog.EncodeYAML(release.Changes(), opts.IncludeHeadings)
		if err != nil {
			return nil, err
		}
		out = string(b)
	case changelog.FormatTerminal:
		var buf bytes.Buffer
		err := changelog.FormatRelease(&release, &buf, changelog.FormatOptions{
			Plain:       opts.Plain,
			MaxWidth:    opts.MaxWidth,
			HideHeading: !opts.IncludeHeadings,
		})
		if err != nil {
			return nil, err
		}
		out = buf.String()
	default:
		return nil, fmt.Errorf("unsupported output format %q", opts.Format)
	}

	out = strings.TrimRight(strings.TrimLeft(out, "\n"), " \t\r\n")
	if out == "" {
		return nil, nil
	}
	return []byte(out + "\n"), nil
}
