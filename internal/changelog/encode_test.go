package changelog

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func encodeFixture() []Change {
	return []Change{
		{Category: Fixed, Description: "Parser rejects stray text"},
		{Category: Added, Description: "JSON output"},
	}
}

func TestEncodeJSON_Changes(t *testing.T) {
	out, err := EncodeJSON(encodeFixture())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "changes_json", out)
}

func TestEncodeYAML_Changes(t *testing.T) {
	tests := map[string]struct {
		withMarker bool
		want       string
	}{
		"with document marker": {
			withMarker: true,
			want:       "---\n- category: fixed\n  description: Parser rejects stray text\n- category: added\n  description: JSON output\n",
		},
		"without document marker": {
			withMarker: false,
			want:       "- category: fixed\n  description: Parser rejects stray text\n- category: added\n  description: JSON output\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := EncodeYAML(encodeFixture(), tt.withMarker)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestEncode_EmptyChanges(t *testing.T) {
	out, err := EncodeJSON([]Change(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))

	out, err = EncodeYAML([]Change(nil), false)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestChange_StructuredRoundTrip(t *testing.T) {
	out, err := EncodeYAML(encodeFixture(), true)
	require.NoError(t, err)

	var decoded []Change
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, encodeFixture(), decoded)

	out, err = EncodeJSON(encodeFixture())
	require.NoError(t, err)

	decoded = nil
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, encodeFixture(), decoded)
}

func TestChange_DecodeRejectsUnknownCategory(t *testing.T) {
	var decoded []Change
	err := yaml.Unmarshal([]byte("- category: misc\n  description: x\n"), &decoded)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	err = json.Unmarshal([]byte(`[{"category":"misc","description":"x"}]`), &decoded)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestEncodeJSON_Changelog(t *testing.T) {
	log := &Changelog{
		Releases: []Release{
			BuildRelease([]Change{{Category: Security, Description: "s"}, {Category: Added, Description: "a"}}),
			{Version: "1.0.0", Date: "2024-01-01", Yanked: true},
		},
	}

	out, err := EncodeJSON(log)
	require.NoError(t, err)

	var decoded struct {
		Releases []struct {
			Version string   `json:"version"`
			Date    string   `json:"date"`
			Yanked  bool     `json:"yanked"`
			Changes []Change `json:"changes"`
		} `json:"releases"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded.Releases, 2)

	assert.Equal(t, "unreleased", decoded.Releases[0].Version)
	assert.Equal(t, []Change{{Category: Added, Description: "a"}, {Category: Security, Description: "s"}}, decoded.Releases[0].Changes)
	assert.Equal(t, "1.0.0", decoded.Releases[1].Version)
	assert.True(t, decoded.Releases[1].Yanked)
	assert.Empty(t, decoded.Releases[1].Changes)
	assert.NotContains(t, string(out), "preamble")
}

func TestEncodeYAML_Changelog(t *testing.T) {
	log := &Changelog{
		Preamble: "# Changelog\n",
		Releases: []Release{{Version: "2.0.0", Date: "2024-06-01"}},
	}

	out, err := EncodeYAML(log, false)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "# Changelog\n", decoded["preamble"])
	releases, ok := decoded["releases"].([]any)
	require.True(t, ok)
	require.Len(t, releases, 1)
	assert.Equal(t, "2.0.0", releases[0].(map[string]any)["version"])
}

func TestParseFormat(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Format
		wantErr bool
	}{
		"markdown": {input: "markdown", want: FormatMarkdown},
		"md":       {input: "md", want: FormatMarkdown},
		"json":     {input: "JSON", want: FormatJSON},
		"yaml":     {input: "yaml", want: FormatYAML},
		"yml":      {input: "yml", want: FormatYAML},
		"terminal": {input: "terminal", want: FormatTerminal},
		"unknown":  {input: "toml", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
