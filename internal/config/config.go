// Package config provides layered configuration for cl using koanf.
// Configuration is loaded with priority: environment variables (CL_*) >
// project config (.cl.yml at the repository root) > user config
// (~/.config/cl/config.yml) > defaults. A legacy .cl.json project file is
// still read, with a deprecation warning.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "CL_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration holds the cl settings.
type Configuration struct {
	// ChangelogPath is the changelog location relative to the repository root.
	ChangelogPath string `koanf:"changelog_path" validate:"required"`
	// FragmentDir is the fragment root relative to the repository root.
	FragmentDir string `koanf:"fragment_dir" validate:"required"`
	// Format is the default output format of the show command.
	Format string `koanf:"format" validate:"required,oneof=markdown md json yaml yml terminal term"`
	// AggregateMode decides whether aggregate replaces or merges Unreleased.
	AggregateMode string `koanf:"aggregate_mode" validate:"required,oneof=replace merge"`
	// Stage adds written fragment files and the changelog to the git index.
	Stage bool `koanf:"stage"`

	// Sources maps each key to the layer that set its final value.
	Sources map[string]ConfigSource `koanf:"-"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir is the repository root holding .cl.yml. Empty skips the project layer.
	ProjectDir string
	// UserConfigPath overrides the user config path (default: UserConfigPath()).
	UserConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration for the repository rooted at projectDir.
func Load(projectDir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: projectDir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	sources := make(map[string]ConfigSource)
	warningWriter := getWarningWriter(opts.WarningWriter)

	if err := mergeLayer(k, sources, SourceDefault, func(l *koanf.Koanf) error {
		return l.Load(confmap.Provider(GetDefaults(), "."), nil)
	}); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadUserConfig(k, sources, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if opts.ProjectDir != "" {
		if err := loadProjectConfig(k, sources, opts.ProjectDir, warningWriter, opts.SkipWarnings); err != nil {
			return nil, err
		}
	}

	if err := mergeLayer(k, sources, SourceEnv, func(l *koanf.Koanf) error {
		return l.Load(env.Provider(EnvPrefix, ".", envTransform), nil)
	}); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	return finalizeConfig(k, sources)
}

// mergeLayer loads one layer into its own koanf instance, records which keys
// it set and merges it over k.
func mergeLayer(k *koanf.Koanf, sources map[string]ConfigSource, source ConfigSource, load func(*koanf.Koanf) error) error {
	layer := koanf.New(".")
	if err := load(layer); err != nil {
		return err
	}
	for _, key := range layer.Keys() {
		if _, known := GetDefaults()[key]; known {
			sources[key] = source
		}
	}
	return k.Merge(layer)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadUserConfig loads the user-level YAML config when it exists.
func loadUserConfig(k *koanf.Koanf, sources map[string]ConfigSource, override string) error {
	path := override
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, sources, path, SourceUser); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads .cl.yml, falling back to the legacy .cl.json with
// a warning. When both exist the YAML file wins and the JSON file is ignored.
func loadProjectConfig(k *koanf.Koanf, sources map[string]ConfigSource, projectDir string, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath := ProjectConfigPath(projectDir)
	legacyPath := LegacyProjectConfigPath(projectDir)

	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	if yamlExists {
		if err := loadYAMLConfig(k, sources, yamlPath, SourceProject); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		if legacyExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n\n", legacyPath, yamlPath)
		}
		return nil
	}

	if legacyExists {
		err := mergeLayer(k, sources, SourceProject, func(l *koanf.Koanf) error {
			return l.Load(file.Provider(legacyPath), json.Parser())
		})
		if err != nil {
			return fmt.Errorf("failed to load legacy project config %s: %w", legacyPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Rename it to %s and convert it to YAML.\n\n", ProjectConfigFile)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, sources map[string]ConfigSource, path string, source ConfigSource) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
	}
	err := mergeLayer(k, sources, source, func(l *koanf.Koanf) error {
		return l.Load(file.Provider(path), yaml.Parser())
	})
	if err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf, sources map[string]ConfigSource) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Sources = sources
	return &cfg, nil
}

// Keys returns the configuration keys in sorted order.
func Keys() []string {
	defaults := GetDefaults()
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the value of key as it would be written in a config file.
func (c *Configuration) Value(key string) (any, bool) {
	switch key {
	case "changelog_path":
		return c.ChangelogPath, true
	case "fragment_dir":
		return c.FragmentDir, true
	case "format":
		return c.Format, true
	case "aggregate_mode":
		return c.AggregateMode, true
	case "stage":
		return c.Stage, true
	}
	return nil, false
}

// Source returns the layer that set key, SourceDefault if unknown.
func (c *Configuration) Source(key string) ConfigSource {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: CL_CHANGELOG_PATH -> changelog_path
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}
