package config

// GetDefaultConfigTemplate returns a commented config template that documents
// every available option.
func GetDefaultConfigTemplate() string {
	return `# cl configuration
# Project file: .cl.yml at the repository root. User file: ~/.config/cl/config.yml.
# Every key can be overridden with a CL_<KEY> environment variable.

changelog_path: CHANGELOG.md          # Changelog location relative to the repository root
fragment_dir: .cl                     # Directory holding one <branch>.yml fragment file per branch
format: markdown                      # Default show format: markdown | json | yaml | terminal
aggregate_mode: replace               # replace: rebuild Unreleased from fragments | merge: append to it
stage: true                           # git add written fragment files and the changelog
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]any {
	return map[string]any{
		"changelog_path": "CHANGELOG.md",
		"fragment_dir":   ".cl",
		"format":         "markdown",
		"aggregate_mode": "replace",
		"stage":          true,
	}
}
