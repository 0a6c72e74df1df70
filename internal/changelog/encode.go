package changelog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects how pending changes are displayed.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTerminal Format = "terminal"
)

// YAMLDocumentMarker starts every YAML document emitted with headings.
const YAMLDocumentMarker = "---\n"

// ParseFormat accepts the format names and their short aliases (md, yml).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "terminal", "term":
		return FormatTerminal, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: markdown, md, json, yaml, yml, terminal)", s)
}

// releaseDoc is the structured form of a Release.
type releaseDoc struct {
	Version string   `json:"version" yaml:"version"`
	Date    string   `json:"date,omitempty" yaml:"date,omitempty"`
	Yanked  bool     `json:"yanked,omitempty" yaml:"yanked,omitempty"`
	Changes []Change `json:"changes" yaml:"changes"`
}

// changelogDoc is the structured form of a Changelog.
type changelogDoc struct {
	Preamble string       `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Releases []releaseDoc `json:"releases" yaml:"releases"`
	Links    []string     `json:"links,omitempty" yaml:"links,omitempty"`
}

func (r Release) doc() releaseDoc {
	d := releaseDoc{
		Version: "unreleased",
		Date:    r.Date,
		Yanked:  r.Yanked,
		Changes: r.Changes(),
	}
	if !r.IsUnreleased() {
		d.Version = string(r.Version)
	}
	return d
}

func (c Changelog) doc() changelogDoc {
	d := changelogDoc{
		Preamble: c.Preamble,
		Releases: make([]releaseDoc, len(c.Releases)),
		Links:    c.Links,
	}
	for i, r := range c.Releases {
		d.Releases[i] = r.doc()
	}
	return d
}

func (r Release) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.doc())
}

func (r Release) MarshalYAML() (any, error) {
	return r.doc(), nil
}

func (c Changelog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.doc())
}

func (c Changelog) MarshalYAML() (any, error) {
	return c.doc(), nil
}

// EncodeJSON serializes v (a Changelog, Release or []Change) as indented JSON.
func EncodeJSON(v any) ([]byte, error) {
	if changes, ok := v.([]Change); ok && changes == nil {
		v = []Change{}
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// EncodeYAML serializes v as YAML. With withMarker the output starts with
// the "---" document marker.
func EncodeYAML(v any, withMarker bool) ([]byte, error) {
	if changes, ok := v.([]Change); ok && changes == nil {
		v = []Change{}
	}

	var buf bytes.Buffer
	if withMarker {
		buf.WriteString(YAMLDocumentMarker)
	}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}
