package changelog

import "strings"

// DefaultPreamble is the Keep a Changelog lead-in used when a changelog is
// created from scratch.
const DefaultPreamble = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

`

// Render generates a Keep a Changelog formatted markdown document from c.
// The preamble is written verbatim, releases in model order, categories in
// canonical order with empty categories omitted. A non-empty preamble that
// does not end in a newline gets one before the first release, and entries
// whose description is blank are skipped, so Parse(Render(c)) always
// succeeds.
//
// The function is idempotent - given the same input, it produces identical output.
func Render(c *Changelog) []byte {
	var b strings.Builder

	b.WriteString(c.Preamble)
	if len(c.Releases) == 0 && len(c.Links) == 0 {
		return []byte(b.String())
	}
	if b.Len() > 0 && !strings.HasSuffix(c.Preamble, "\n") {
		b.WriteString("\n")
	}

	for i := range c.Releases {
		if i > 0 {
			b.WriteString("\n")
		}
		renderRelease(&b, &c.Releases[i])
	}

	if len(c.Links) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		for _, link := range c.Links {
			b.WriteString(link + "\n")
		}
	}

	return []byte(b.String())
}

// RenderRelease renders a single release section, heading included.
func RenderRelease(r *Release) string {
	var b strings.Builder
	renderRelease(&b, r)
	return b.String()
}

func renderRelease(b *strings.Builder, r *Release) {
	b.WriteString("## " + r.Heading() + "\n")

	for _, cat := range Categories() {
		var lines []string
		for _, e := range r.Entries[cat] {
			if d := oneLine(e.Description); d != "" {
				lines = append(lines, d)
			}
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n### " + cat.String() + "\n")
		for _, d := range lines {
			b.WriteString("- " + d + "\n")
		}
	}
}
