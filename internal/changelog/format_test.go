package changelog

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRelease_Plain(t *testing.T) {
	r := BuildRelease([]Change{
		{Category: Fixed, Description: "Bug"},
		{Category: Added, Description: "Feature"},
	})

	var buf bytes.Buffer
	require.NoError(t, FormatRelease(&r, &buf, FormatOptions{Plain: true, MaxWidth: 80}))

	assert.Equal(t, "## Unreleased\n\n### Added\n  - Feature\n\n### Fixed\n  - Bug\n", buf.String())
}

func TestFormatRelease_Headers(t *testing.T) {
	tests := map[string]struct {
		release Release
		opts    FormatOptions
		want    string
	}{
		"released": {
			release: Release{Version: "1.0.0", Date: "2024-01-01"},
			opts:    FormatOptions{Plain: true},
			want:    "## v1.0.0 (2024-01-01)\n",
		},
		"yanked": {
			release: Release{Version: "1.0.0", Date: "2024-01-01", Yanked: true},
			opts:    FormatOptions{Plain: true},
			want:    "## v1.0.0 (2024-01-01) YANKED\n",
		},
		"hidden heading": {
			release: Release{},
			opts:    FormatOptions{Plain: true, HideHeading: true},
			want:    "No pending changes.\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, FormatRelease(&tt.release, &buf, tt.opts))
			assert.True(t, strings.HasPrefix(buf.String(), tt.want), "got %q", buf.String())
		})
	}
}

func TestFormatRelease_Colored(t *testing.T) {
	r := BuildRelease([]Change{{Category: Security, Description: "Patched"}})

	var buf bytes.Buffer
	require.NoError(t, FormatRelease(&r, &buf, FormatOptions{MaxWidth: 80}))

	out := buf.String()
	assert.Contains(t, out, "🔒")
	assert.Contains(t, out, "Security")
	assert.Contains(t, out, "Patched")
	assert.NotContains(t, out, "### Security")
}

func TestWrapText(t *testing.T) {
	tests := map[string]struct {
		text     string
		maxWidth int
		want     string
	}{
		"short text": {
			text:     "fits",
			maxWidth: 20,
			want:     "fits",
		},
		"wraps at space": {
			text:     "one two three four",
			maxWidth: 9,
			want:     "one two\n    three\n    four",
		},
		"zero width disables": {
			text:     "one two three",
			maxWidth: 0,
			want:     "one two three",
		},
		"multibyte without spaces": {
			text:     strings.Repeat("ä", 12),
			maxWidth: 5,
			want:     "äääää\n    äääää\n    ää",
		},
		"multibyte wraps at space": {
			text:     "größer schöner",
			maxWidth: 8,
			want:     "größer\n    schöner",
		},
		"multibyte fits by rune count": {
			text:     "日本語のテキスト",
			maxWidth: 8,
			want:     "日本語のテキスト",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := wrapText(tt.text, tt.maxWidth, "    ")
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got), "wrapped text is not valid UTF-8: %q", got)
		})
	}
}

func TestTruncateText_Multibyte(t *testing.T) {
	got := truncateText(strings.Repeat("é", 70), 60)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 60, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("é", 57)+"...", got)

	assert.Equal(t, "kurz", truncateText("kurz", 60))
}

func TestFormatChangeSummary(t *testing.T) {
	c := Change{Category: Fixed, Description: strings.Repeat("x", 70)}

	plain := FormatChangeSummary(c, FormatOptions{Plain: true})
	assert.True(t, strings.HasPrefix(plain, "[fixed] "))
	assert.True(t, strings.HasSuffix(plain, "..."))
	assert.Len(t, plain, len("[fixed] ")+60)

	colored := FormatChangeSummary(Change{Category: Added, Description: "short"}, FormatOptions{})
	assert.Contains(t, colored, "✓")
	assert.Contains(t, colored, "short")
}
