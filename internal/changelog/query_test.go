package changelog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryFixture() *Changelog {
	return &Changelog{
		Releases: []Release{
			{Entries: map[Category][]Change{Added: {{Category: Added, Description: "pending"}}}},
			{Version: "1.2.0", Date: "2024-03-01", Entries: map[Category][]Change{Fixed: {{Category: Fixed, Description: "f"}}}},
			{Version: "1.1.0", Date: "2024-02-01"},
		},
	}
}

func TestFindRelease(t *testing.T) {
	tests := map[string]struct {
		version string
		wantVer Version
		wantErr error
	}{
		"exact match":        {version: "1.2.0", wantVer: "1.2.0"},
		"with v prefix":      {version: "v1.1.0", wantVer: "1.1.0"},
		"uppercase v prefix": {version: "V1.1.0", wantVer: "1.1.0"},
		"absent version":     {version: "9.9.9", wantErr: ErrReleaseNotFound},
		"unreleased":         {version: "unreleased", wantErr: ErrInvalidVersion},
		"garbage":            {version: "1.x", wantErr: ErrInvalidVersion},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := queryFixture().FindRelease(tt.version)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVer, r.Version)
		})
	}
}

func TestFindRelease_NotFoundListsAvailable(t *testing.T) {
	_, err := queryFixture().FindRelease("9.9.9")

	var nf *ReleaseNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, Version("9.9.9"), nf.Version)
	assert.Equal(t, []string{"1.2.0", "1.1.0"}, nf.AvailableVersions)
	assert.Contains(t, err.Error(), "available: 1.2.0, 1.1.0")

	_, err = (&Changelog{}).FindRelease("1.0.0")
	assert.Contains(t, err.Error(), "no releases")
}

func TestFindRelease_ReturnsPointerIntoModel(t *testing.T) {
	log := queryFixture()
	r, err := log.FindRelease("1.1.0")
	require.NoError(t, err)

	r.Yanked = true
	assert.True(t, log.Releases[2].Yanked)
}

func TestUnreleased(t *testing.T) {
	log := queryFixture()
	require.NotNil(t, log.Unreleased())
	assert.Equal(t, []string{"pending"}, log.Unreleased().Descriptions(Added))

	released := &Changelog{Releases: []Release{{Version: "1.0.0", Date: "2024-01-01"}}}
	assert.Nil(t, released.Unreleased())
}

func TestSetUnreleased(t *testing.T) {
	t.Run("replaces existing section", func(t *testing.T) {
		log := queryFixture()
		log.SetUnreleased(BuildRelease([]Change{{Category: Removed, Description: "r"}}))

		require.Len(t, log.Releases, 3)
		assert.Nil(t, log.Unreleased().Entries[Added])
		assert.Equal(t, []string{"r"}, log.Unreleased().Descriptions(Removed))
	})

	t.Run("inserts at front when missing", func(t *testing.T) {
		log := &Changelog{Releases: []Release{{Version: "1.0.0", Date: "2024-01-01"}}}
		log.SetUnreleased(Release{Version: "5.0.0", Date: "2024-09-09", Yanked: true})

		require.Len(t, log.Releases, 2)
		assert.Equal(t, Release{}, log.Releases[0])
		assert.Equal(t, Version("1.0.0"), log.Releases[1].Version)
	})
}

func TestEntryCount(t *testing.T) {
	assert.Equal(t, 2, queryFixture().EntryCount())
	assert.Equal(t, 0, (&Changelog{}).EntryCount())
}
