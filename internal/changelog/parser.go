package changelog

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	unreleasedHeadingRe = regexp.MustCompile(`^##\s+\[(?i:unreleased)\]\s*$`)
	releaseHeadingRe    = regexp.MustCompile(`^##\s+\[([^\]]+)\]\s+-\s+(\S+)(\s+\[(?i:yanked)\])?\s*$`)
	linkDefinitionRe    = regexp.MustCompile(`^\[[^\]]+\]:\s*\S+`)
)

// parseState is the position of the line scanner within the document.
type parseState int

const (
	statePreamble parseState = iota
	stateRelease             // inside a release, no category heading yet
	stateCategory            // inside a category, bullets allowed
	stateFooter              // link definitions after the releases
)

// parser holds the state of a single forward pass over the document.
type parser struct {
	state    parseState
	log      *Changelog
	category Category
	// lastEntry is set while indented lines may still continue the previous bullet.
	lastEntry bool
	line      int
}

// Parse converts a Keep a Changelog Markdown document into a Changelog.
// Empty input yields an empty Changelog. Errors are *ParseError values that
// unwrap to ErrMalformedDocument, ErrInvalidVersion, ErrUnknownCategory or
// ErrUnexpectedEntry.
func Parse(data []byte) (*Changelog, error) {
	p := &parser{log: &Changelog{}}

	offset := 0
	for offset < len(data) {
		end := bytes.IndexByte(data[offset:], '\n')
		next := len(data)
		if end >= 0 {
			next = offset + end + 1
		}
		raw := string(data[offset:next])
		p.line++

		if p.state == statePreamble {
			if !isReleaseHeading(raw) {
				offset = next
				continue
			}
			p.log.Preamble = string(data[:offset])
			p.state = stateRelease
		}

		if err := p.parseLine(strings.TrimRight(raw, "\r\n")); err != nil {
			return nil, &ParseError{Line: p.line, Err: err}
		}
		offset = next
	}

	if p.state == statePreamble {
		p.log.Preamble = string(data)
	}
	return p.log, nil
}

func isReleaseHeading(line string) bool {
	return strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "##\t")
}

// parseLine handles one line after the preamble.
func (p *parser) parseLine(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		p.lastEntry = false
		return nil
	}

	if p.state == stateFooter {
		if linkDefinitionRe.MatchString(trimmed) {
			p.log.Links = append(p.log.Links, trimmed)
			return nil
		}
		return fmt.Errorf("%w: only link definitions may follow them: %q", ErrMalformedDocument, trimmed)
	}

	switch {
	case isReleaseHeading(line):
		return p.openRelease(line)
	case strings.HasPrefix(line, "### "):
		return p.openCategory(strings.TrimPrefix(line, "### "))
	case isBullet(line):
		return p.addEntry(line[1:])
	case p.lastEntry && (line[0] == ' ' || line[0] == '\t'):
		return p.continueEntry(trimmed)
	case linkDefinitionRe.MatchString(line):
		p.state = stateFooter
		p.log.Links = append(p.log.Links, trimmed)
		return nil
	case strings.HasPrefix(line, "#"):
		return fmt.Errorf("%w: unexpected heading %q", ErrMalformedDocument, trimmed)
	}
	return fmt.Errorf("%w: unexpected text %q", ErrMalformedDocument, trimmed)
}

func isBullet(line string) bool {
	return line == "-" || line == "*" || strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ")
}

// openRelease starts a new release and enforces the ordering invariants:
// Unreleased first, at most once, the rest strictly descending.
func (p *parser) openRelease(line string) error {
	p.state = stateRelease
	p.lastEntry = false

	var rel Release
	if unreleasedHeadingRe.MatchString(line) {
		if len(p.log.Releases) > 0 {
			return fmt.Errorf("%w: [Unreleased] must be the first release", ErrMalformedDocument)
		}
		p.log.Releases = append(p.log.Releases, rel)
		return nil
	}

	m := releaseHeadingRe.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("%w: release heading %q is not \"## [<version>] - <date>\"", ErrMalformedDocument, line)
	}

	version, err := ParseVersion(m[1])
	if err != nil {
		return err
	}
	if _, err := time.Parse(dateLayout, m[2]); err != nil {
		return fmt.Errorf("%w: release %s has invalid date %q (expected YYYY-MM-DD)", ErrMalformedDocument, version, m[2])
	}

	if n := len(p.log.Releases); n > 0 && !p.log.Releases[n-1].IsUnreleased() {
		prev := p.log.Releases[n-1].Version
		switch version.Compare(prev) {
		case 0:
			return fmt.Errorf("%w: duplicate release %s", ErrMalformedDocument, version)
		case 1:
			return fmt.Errorf("%w: release %s listed after older release %s", ErrMalformedDocument, version, prev)
		}
	}

	rel.Version = version
	rel.Date = m[2]
	rel.Yanked = m[3] != ""
	p.log.Releases = append(p.log.Releases, rel)
	return nil
}

func (p *parser) openCategory(name string) error {
	c, err := ParseCategory(name)
	if err != nil {
		return err
	}
	p.category = c
	p.state = stateCategory
	p.lastEntry = false
	return nil
}

func (p *parser) addEntry(text string) error {
	if p.state != stateCategory {
		return fmt.Errorf("%w: bullet %q is not under a category heading", ErrUnexpectedEntry, strings.TrimSpace(text))
	}
	change, err := NewChange(p.category, text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	p.current().Add(change)
	p.lastEntry = true
	return nil
}

// continueEntry appends an indented continuation line to the last bullet.
func (p *parser) continueEntry(text string) error {
	rel := p.current()
	entries := rel.Entries[p.category]
	last := &entries[len(entries)-1]
	last.Description += " " + text
	return nil
}

func (p *parser) current() *Release {
	return &p.log.Releases[len(p.log.Releases)-1]
}
