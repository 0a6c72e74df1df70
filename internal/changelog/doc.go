// Package changelog models a Keep a Changelog document.
//
// This package implements:
//   - CHANGELOG.md parsing into releases and fixed categories
//   - Markdown rendering that round-trips the parsed model byte for byte
//   - JSON and YAML encodings of changes, releases and whole changelogs
//   - Grouping loose changes into an Unreleased release
//   - Colored terminal display of a release
//
// The Markdown document is the persisted form; Parse and Render are the only
// way bytes become a Changelog and back, and Render(Parse(Render(c))) is
// always identical to Render(c).
package changelog
