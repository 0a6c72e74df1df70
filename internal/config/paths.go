package config

import (
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the project config file name at the repository root.
	ProjectConfigFile = ".cl.yml"
	// LegacyProjectConfigFile is the deprecated JSON project config file name.
	LegacyProjectConfigFile = ".cl.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/cl/config.yml
// - macOS: ~/Library/Application Support/cl/config.yml
// - Windows: %APPDATA%\cl\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "cl", "config.yml"), nil
}

// ProjectConfigPath returns the project config path for the repository at root.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, ProjectConfigFile)
}

// LegacyProjectConfigPath returns the legacy JSON project config path.
func LegacyProjectConfigPath(root string) string {
	return filepath.Join(root, LegacyProjectConfigFile)
}
