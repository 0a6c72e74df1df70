package changelog

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Category is one of the fixed Keep a Changelog sections.
// The zero value is Added; the declaration order is the canonical render order.
type Category int

const (
	Added Category = iota
	Changed
	Deprecated
	Removed
	Fixed
	Security

	numCategories
)

var categoryNames = [numCategories]string{
	"Added", "Changed", "Deprecated", "Removed", "Fixed", "Security",
}

// categoryAliases maps the singular verb forms accepted on the command line.
var categoryAliases = map[string]Category{
	"add":       Added,
	"change":    Changed,
	"deprecate": Deprecated,
	"remove":    Removed,
	"fix":       Fixed,
}

// Categories returns every category in canonical order:
// Added, Changed, Deprecated, Removed, Fixed, Security.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	return c >= 0 && c < numCategories
}

// String returns the capitalized heading form, e.g. "Added".
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Key returns the lower-case form used in fragment files and structured output.
func (c Category) Key() string {
	return strings.ToLower(c.String())
}

// ParseCategory matches s case-insensitively against the six category names.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimSpace(s)
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownCategory, s, strings.Join(categoryNames[:], ", "))
}

// LookupCategory is ParseCategory plus the singular verb aliases
// ("add", "change", "deprecate", "remove", "fix").
func LookupCategory(s string) (Category, error) {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return ParseCategory(s)
}

// Alias returns the singular verb accepted for c, or "" when it has none.
func (c Category) Alias() string {
	for alias, cat := range categoryAliases {
		if cat == c {
			return alias
		}
	}
	return ""
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.Key()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Category) MarshalYAML() (any, error) {
	b, err := c.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *Category) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a scalar", ErrUnknownCategory, node.Line)
	}
	return c.UnmarshalText([]byte(node.Value))
}

// Change is a single changelog entry: a category plus free-text description.
type Change struct {
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
}

// NewChange builds a Change, collapsing the description onto one line.
// Returns ErrEmptyDescription if nothing but whitespace remains.
func NewChange(category Category, description string) (Change, error) {
	if !category.Valid() {
		return Change{}, fmt.Errorf("%w: %d", ErrUnknownCategory, int(category))
	}
	desc := oneLine(description)
	if desc == "" {
		return Change{}, ErrEmptyDescription
	}
	return Change{Category: category, Description: desc}, nil
}

// oneLine joins multi-line text with single spaces so an entry stays one bullet.
func oneLine(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	parts := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}

// semverPattern requires the full MAJOR.MINOR.PATCH form; x/mod/semver alone
// would also accept shorthands like "1.2".
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// Version is a normalized semantic version without the "v" prefix, e.g. "1.2.0".
// The empty Version denotes the Unreleased pseudo-release.
type Version string

// ParseVersion validates s as a semantic version. A leading "v" is accepted
// and stripped.
func ParseVersion(s string) (Version, error) {
	v := NormalizeVersion(s)
	if !semverPattern.MatchString(v) || !semver.IsValid("v"+v) {
		return "", fmt.Errorf("%w: %q (expected MAJOR.MINOR.PATCH)", ErrInvalidVersion, s)
	}
	return Version(v), nil
}

// NormalizeVersion trims whitespace and removes a "v" prefix.
// This allows accepting both "v0.6.0" and "0.6.0" as input.
func NormalizeVersion(version string) string {
	v := strings.TrimSpace(version)
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		v = v[1:]
	}
	return v
}

// Compare orders versions by semantic-version precedence.
// The result is -1, 0 or +1.
func (v Version) Compare(other Version) int {
	return semver.Compare("v"+string(v), "v"+string(other))
}

func (v Version) String() string {
	return string(v)
}

// Release is one "## " section of the changelog. A Release with an empty
// Version is the Unreleased section: it has no date and is never yanked.
type Release struct {
	Version Version
	Date    string
	Yanked  bool
	// Entries holds only non-empty categories, each in insertion order.
	Entries map[Category][]Change
}

// Changelog is the structured form of a CHANGELOG.md document.
// Unreleased, when present, is first; the remaining releases are ordered
// newest first.
type Changelog struct {
	// Preamble is everything before the first release heading. Parse keeps it
	// byte for byte; Render newline-terminates it when releases follow.
	Preamble string
	Releases []Release
	// Links are the link reference definitions that follow the releases,
	// e.g. "[1.0.0]: https://example.com/compare/v0.9.0...v1.0.0".
	Links []string
}

// IsUnreleased returns true if this release represents unreleased changes.
func (r Release) IsUnreleased() bool {
	return r.Version == ""
}

// Heading returns the release heading without the leading "## ".
func (r Release) Heading() string {
	if r.IsUnreleased() {
		return "[Unreleased]"
	}
	h := fmt.Sprintf("[%s] - %s", r.Version, r.Date)
	if r.Yanked {
		h += " [YANKED]"
	}
	return h
}

// Count returns the total number of entries across all categories.
func (r Release) Count() int {
	n := 0
	for _, entries := range r.Entries {
		n += len(entries)
	}
	return n
}

// IsEmpty returns true if the release has no entries in any category.
func (r Release) IsEmpty() bool {
	return r.Count() == 0
}
