package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps categories to their terminal styling.
var categoryStyles = [numCategories]CategoryStyle{
	Added:      {Color: color.New(color.FgGreen), Icon: "✓"},
	Changed:    {Color: color.New(color.FgBlue), Icon: "~"},
	Deprecated: {Color: color.New(color.FgRed), Icon: "⚠"},
	Removed:    {Color: color.New(color.FgRed), Icon: "✗"},
	Fixed:      {Color: color.New(color.FgYellow), Icon: "⚡"},
	Security:   {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain       bool // Disable colors and icons
	MaxWidth    int  // Maximum line width (0 = auto-detect)
	HideHeading bool // Omit the release header line
}

// FormatRelease writes a release to w with terminal styling.
// Categories appear in canonical order; empty ones are skipped.
func FormatRelease(r *Release, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	if !opts.HideHeading {
		if err := writeReleaseHeader(r, w, opts); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if r.IsEmpty() {
		_, err := fmt.Fprintln(w, "No pending changes.")
		return err
	}

	for _, cat := range Categories() {
		if entries := r.Entries[cat]; len(entries) > 0 {
			if err := writeCategorySection(cat, entries, w, opts, width); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeReleaseHeader writes the release header line.
func writeReleaseHeader(r *Release, w io.Writer, opts FormatOptions) error {
	var header string
	switch {
	case r.IsUnreleased():
		header = "Unreleased"
	case r.Yanked:
		header = fmt.Sprintf("v%s (%s) YANKED", r.Version, r.Date)
	default:
		header = fmt.Sprintf("v%s (%s)", r.Version, r.Date)
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

// writeCategorySection writes a single category with its entries.
func writeCategorySection(cat Category, entries []Change, w io.Writer, opts FormatOptions, width int) error {
	style := categoryStyles[cat]

	if opts.Plain {
		if _, err := fmt.Fprintf(w, "\n### %s\n", cat); err != nil {
			return err
		}
	} else {
		colored := style.Color.SprintFunc()
		if _, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(cat.String())); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if err := writeEntry(entry, style, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeEntry writes a single changelog entry with optional wrapping.
func writeEntry(entry Change, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, entry.Description)
		return err
	}

	wrapped := wrapText(entry.Description, width-len(prefix), "    ")
	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth runes, using indent for
// continuation lines. Lines never end inside a multi-byte character.
func wrapText(text string, maxWidth int, indent string) string {
	remaining := []rune(text)
	if maxWidth <= 0 || len(remaining) <= maxWidth {
		return text
	}

	var lines []string
	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, string(remaining[:breakPoint]))
		remaining = remaining[breakPoint:]
		for len(remaining) > 0 && remaining[0] == ' ' {
			remaining = remaining[1:]
		}
	}

	if len(remaining) > 0 {
		lines = append(lines, string(remaining))
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatChangeSummary returns a brief one-line summary of a change for log
// lines, truncated to 60 runes.
func FormatChangeSummary(c Change, opts FormatOptions) string {
	text := truncateText(c.Description, 60)

	if opts.Plain || !c.Category.Valid() {
		return fmt.Sprintf("[%s] %s", c.Category.Key(), text)
	}

	style := categoryStyles[c.Category]
	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %s %s", colored(style.Icon), colored(c.Category.String()), text)
}

// truncateText truncates text to maxLen runes, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}
