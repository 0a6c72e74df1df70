package changelog

// FindRelease retrieves a released version from the changelog.
// Accepts both "v0.6.0" and "0.6.0" formats. The Unreleased section is never
// matched. Returns an ErrInvalidVersion error for malformed input and a
// *ReleaseNotFoundError if no release has that version.
func (c *Changelog) FindRelease(version string) (*Release, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}

	for i := range c.Releases {
		r := &c.Releases[i]
		if !r.IsUnreleased() && r.Version == v {
			return r, nil
		}
	}

	return nil, &ReleaseNotFoundError{
		Version:           v,
		AvailableVersions: c.ListVersions(),
	}
}

// Unreleased returns the Unreleased section, or nil if the changelog has none.
func (c *Changelog) Unreleased() *Release {
	if len(c.Releases) > 0 && c.Releases[0].IsUnreleased() {
		return &c.Releases[0]
	}
	return nil
}

// SetUnreleased replaces the Unreleased section with r, inserting it at the
// front when the changelog has none. r's version, date and yanked flag are
// cleared so the result is always a valid Unreleased section.
func (c *Changelog) SetUnreleased(r Release) {
	r.Version = ""
	r.Date = ""
	r.Yanked = false

	if u := c.Unreleased(); u != nil {
		*u = r
		return
	}
	c.Releases = append([]Release{r}, c.Releases...)
}

// ListVersions returns the released version identifiers, newest first.
func (c *Changelog) ListVersions() []string {
	versions := make([]string, 0, len(c.Releases))
	for _, r := range c.Releases {
		if !r.IsUnreleased() {
			versions = append(versions, string(r.Version))
		}
	}
	return versions
}

// EntryCount returns the total number of entries across all releases.
func (c *Changelog) EntryCount() int {
	count := 0
	for _, r := range c.Releases {
		count += r.Count()
	}
	return count
}
