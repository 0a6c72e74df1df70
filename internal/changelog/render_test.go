package changelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustChange(t *testing.T, c Category, desc string) Change {
	t.Helper()
	change, err := NewChange(c, desc)
	require.NoError(t, err)
	return change
}

func builtChangelog(t *testing.T) *Changelog {
	t.Helper()
	released := BuildRelease([]Change{mustChange(t, Changed, "Renamed the config key")})
	released.Version = "1.0.0"
	released.Date = "2024-01-01"
	released.Yanked = true

	return &Changelog{
		Preamble: DefaultPreamble,
		Releases: []Release{
			BuildRelease([]Change{
				mustChange(t, Fixed, "Crash when the fragment directory is missing"),
				mustChange(t, Added, "Aggregate command"),
				mustChange(t, Security, "Reject fragment paths outside the repository"),
				mustChange(t, Added, "Yank command"),
			}),
			released,
		},
		Links: []string{"[1.0.0]: https://example.com/releases/tag/v1.0.0"},
	}
}

func TestRender_Golden(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "built_changelog", Render(builtChangelog(t)))
}

func TestRender_SampleDocumentRoundTripsByteForByte(t *testing.T) {
	log, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)
	assert.Equal(t, sampleDocument, string(Render(log)))
}

func TestRender_Layout(t *testing.T) {
	tests := map[string]struct {
		changelog *Changelog
		want      string
	}{
		"empty model": {
			changelog: &Changelog{},
			want:      "",
		},
		"heading-only unreleased": {
			changelog: &Changelog{Releases: []Release{{}}},
			want:      "## [Unreleased]\n",
		},
		"preamble without trailing newline": {
			changelog: &Changelog{Preamble: "# Changelog", Releases: []Release{{}}},
			want:      "# Changelog\n## [Unreleased]\n",
		},
		"released and yanked": {
			changelog: &Changelog{Releases: []Release{
				{Version: "2.0.0", Date: "2024-02-02", Entries: map[Category][]Change{Removed: {{Category: Removed, Description: "Old flag"}}}},
				{Version: "1.0.0", Date: "2024-01-01", Yanked: true},
			}},
			want: "## [2.0.0] - 2024-02-02\n\n### Removed\n- Old flag\n\n## [1.0.0] - 2024-01-01 [YANKED]\n",
		},
		"multi-line description collapses": {
			changelog: &Changelog{Releases: []Release{
				{Entries: map[Category][]Change{Added: {{Category: Added, Description: "first\nsecond"}}}},
			}},
			want: "## [Unreleased]\n\n### Added\n- first second\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Render(tt.changelog)))
		})
	}
}

func TestRender_OmitsEmptyCategories(t *testing.T) {
	r := BuildRelease([]Change{mustChange(t, Added, "A"), mustChange(t, Fixed, "B")})
	out := RenderRelease(&r)

	assert.Contains(t, out, "### Added")
	assert.Contains(t, out, "### Fixed")
	for _, c := range []Category{Changed, Deprecated, Removed, Security} {
		assert.NotContains(t, out, "### "+c.String())
	}
}

func TestRender_CanonicalCategoryOrder(t *testing.T) {
	r := BuildRelease([]Change{
		mustChange(t, Security, "s"),
		mustChange(t, Fixed, "f"),
		mustChange(t, Removed, "r"),
		mustChange(t, Deprecated, "d"),
		mustChange(t, Changed, "c"),
		mustChange(t, Added, "a"),
	})
	out := RenderRelease(&r)

	last := -1
	for _, c := range Categories() {
		idx := strings.Index(out, "### "+c.String())
		require.Greater(t, idx, last, "category %s out of order", c)
		last = idx
	}
}

func TestRender_RoundTrip(t *testing.T) {
	tests := map[string]struct {
		model *Changelog
		// want is the parsed model when rendering normalizes it; nil means model.
		want *Changelog
	}{
		"built":         {model: builtChangelog(t)},
		"no preamble":   {model: &Changelog{Releases: []Release{{Version: "0.1.0", Date: "2023-12-31"}}}},
		"only preamble": {model: &Changelog{Preamble: "# Changelog\n"}},
		"many releases": {model: &Changelog{
			Preamble: "# History\n\n",
			Releases: []Release{
				{Entries: map[Category][]Change{Deprecated: {{Category: Deprecated, Description: "Old API"}}}},
				{Version: "10.0.0", Date: "2024-03-03"},
				{Version: "9.1.0", Date: "2024-02-02", Yanked: true, Entries: map[Category][]Change{
					Added: {{Category: Added, Description: "x"}, {Category: Added, Description: "x"}},
				}},
				{Version: "9.1.0-beta.2", Date: "2024-01-01"},
			},
		}},
		"unterminated preamble": {
			model: &Changelog{Preamble: "# Title", Releases: []Release{{}}},
			want:  &Changelog{Preamble: "# Title\n", Releases: []Release{{}}},
		},
		"unterminated preamble alone": {model: &Changelog{Preamble: "# Title"}},
		"blank descriptions": {
			model: &Changelog{Releases: []Release{{Entries: map[Category][]Change{
				Added: {{Category: Added, Description: " "}},
				Fixed: {{Category: Fixed, Description: "\n"}, {Category: Fixed, Description: "kept"}},
			}}}},
			want: &Changelog{Releases: []Release{{Entries: map[Category][]Change{
				Fixed: {{Category: Fixed, Description: "kept"}},
			}}}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			want := tt.want
			if want == nil {
				want = tt.model
			}
			first := Render(tt.model)

			parsed, err := Parse(first)
			require.NoError(t, err)
			if diff := cmp.Diff(want, parsed); diff != "" {
				t.Errorf("parse(render(model)) mismatch (-want +got):\n%s", diff)
			}

			second := Render(parsed)
			assert.True(t, bytes.Equal(first, second), "render is not idempotent:\n%s\n---\n%s", first, second)
		})
	}
}
