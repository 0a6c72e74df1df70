package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette styles each part of a rendered error.
type palette struct {
	label    func(a ...any) string
	message  func(a ...any) string
	category func(a ...any) string
	location func(a ...any) string
	heading  func(a ...any) string
	usage    func(a ...any) string
	bullet   func(a ...any) string
}

var coloredPalette = palette{
	label:    color.New(color.FgRed, color.Bold).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	location: color.New(color.FgMagenta).SprintFunc(),
	heading:  color.New(color.FgCyan, color.Bold).SprintFunc(),
	usage:    color.New(color.FgCyan).SprintFunc(),
	bullet:   color.New(color.FgGreen).SprintFunc(),
}

var plainPalette = palette{
	label:    fmt.Sprint,
	message:  fmt.Sprint,
	category: fmt.Sprint,
	location: fmt.Sprint,
	heading:  fmt.Sprint,
	usage:    fmt.Sprint,
	bullet:   fmt.Sprint,
}

// FormatError formats a CLIError with colors.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, coloredPalette)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plainPalette)
}

// formatError lays out a CLIError as
//
//	Error [<category>]: <message>
//
//	Location: <file:line>
//
//	Usage: <syntax>
//
//	To fix this:
//	  • <step>
//
// omitting the blocks that are empty.
func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Location != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.heading("Location: "), p.location(err.Location))
	}
	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.heading("Usage: "), p.usage(err.Usage))
	}
	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.heading("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to w.
// Colors are used only when useColors is set and the terminal supports them.
func FprintError(w io.Writer, err *CLIError, useColors bool) {
	if err == nil {
		return
	}
	if useColors && !color.NoColor {
		fmt.Fprint(w, FormatError(err))
		return
	}
	fmt.Fprint(w, FormatErrorPlain(err))
}
