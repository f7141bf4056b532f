package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/z77ma/aspnetcore/internal/diag"
)

// ErrUnsupportedFormat is returned for config files and output formats
// aspnetlint cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Config represents the aspnetlint configuration
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" toml:"analysis"`

	// Output settings
	Output OutputConfig `json:"output" yaml:"output" toml:"output"`

	// Per-rule settings keyed by rule ID
	Rules map[string]RuleConfig `json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules,omitempty"`

	// Additional reference metadata
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" toml:"catalog"`
}

// AnalysisConfig contains analysis-specific settings
type AnalysisConfig struct {
	// Directory names skipped during discovery
	ExcludePaths []string `json:"exclude_paths" yaml:"exclude_paths" toml:"exclude_paths"`

	// Doublestar globs, relative to the analyzed root, of files to skip
	ExcludeGlobs []string `json:"exclude_globs,omitempty" yaml:"exclude_globs,omitempty" toml:"exclude_globs,omitempty"`

	// References given to C# files that no project file owns
	Frameworks []string `json:"frameworks,omitempty" yaml:"frameworks,omitempty" toml:"frameworks,omitempty"`

	// Maximum number of files parsed and declarations analyzed at once; 0 picks GOMAXPROCS
	Concurrency int `json:"concurrency" yaml:"concurrency" toml:"concurrency"`

	// Whether generated files are analyzed
	IncludeGenerated bool `json:"include_generated" yaml:"include_generated" toml:"include_generated"`

	// Whether #pragma and aspnetlint:ignore directives are honoured
	Suppressions bool `json:"suppressions" yaml:"suppressions" toml:"suppressions"`

	// Lowest severity that makes the analyze command fail
	FailOn string `json:"fail_on" yaml:"fail_on" toml:"fail_on"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	// Default output format: text, json or yaml
	Format string `json:"format" yaml:"format" toml:"format"`

	// Whether text output quotes the offending source line
	ShowSource bool `json:"show_source" yaml:"show_source" toml:"show_source"`

	// Whether to colorize output
	Color bool `json:"color" yaml:"color" toml:"color"`
}

// RuleConfig overrides a rule's defaults
type RuleConfig struct {
	// error, warning, info or none; none disables the rule
	Severity string `json:"severity" yaml:"severity" toml:"severity"`
}

// CatalogConfig points at YAML catalogs layered over the built-in one
type CatalogConfig struct {
	Files []string `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
}

// OutputFormats lists the accepted output formats.
var OutputFormats = []string{"text", "json", "yaml"}

// FileNames are the config file names looked up, in order.
var FileNames = []string{
	".aspnetlint.yaml",
	".aspnetlint.yml",
	".aspnetlint.toml",
	".aspnetlint.json",
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			ExcludePaths: []string{
				".git",
				".vs",
				".idea",
				"bin",
				"obj",
				"node_modules",
				"packages",
				"TestResults",
			},
			Concurrency:  0,
			Suppressions: true,
			FailOn:       "error",
		},
		Output: OutputConfig{
			Format:     "text",
			ShowSource: true,
			Color:      true,
		},
		Rules: map[string]RuleConfig{},
	}
}

// LoadConfig loads configuration from a file. With an empty path the
// conventional file names are searched in dir and then the home directory;
// when none exists the defaults are returned.
func LoadConfig(configPath, dir string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = findConfigFile(dir)
	}
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := decode(configPath, data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return config, nil
}

func decode(path string, data []byte, into *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, into)
	case ".toml":
		_, err := toml.Decode(string(data), into)
		return err
	case ".json":
		return json.Unmarshal(data, into)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Marshal encodes c in the format implied by the extension of path.
func Marshal(c *Config, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(c)
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, configPath string) error {
	data, err := Marshal(config, configPath)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects values the analyzer cannot act on.
func (c *Config) Validate() error {
	var errs []error
	if !contains(OutputFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format: %w: %q", ErrUnsupportedFormat, c.Output.Format))
	}
	if _, err := diag.ParseSeverity(c.Analysis.FailOn); err != nil {
		errs = append(errs, fmt.Errorf("analysis.fail_on: %w", err))
	}
	if c.Analysis.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("analysis.concurrency: must not be negative, got %d", c.Analysis.Concurrency))
	}
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := diag.ParseSeverity(c.Rules[id].Severity); err != nil {
			errs = append(errs, fmt.Errorf("rules.%s.severity: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Severities returns the severity overrides of c. It assumes c is valid.
func (c *Config) Severities() map[string]diag.Severity {
	out := make(map[string]diag.Severity, len(c.Rules))
	for id, r := range c.Rules {
		if sev, err := diag.ParseSeverity(r.Severity); err == nil {
			out[id] = sev
		}
	}
	return out
}

// FailOnSeverity returns the parsed fail_on threshold.
func (c *Config) FailOnSeverity() diag.Severity {
	sev, err := diag.ParseSeverity(c.Analysis.FailOn)
	if err != nil {
		return diag.SevError
	}
	return sev
}

// findConfigFile looks for config files in dir, then in the home directory
func findConfigFile(dir string) string {
	var roots []string
	if dir != "" {
		roots = append(roots, dir)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		roots = append(roots, homeDir)
	}
	for _, root := range roots {
		for _, name := range FileNames {
			candidate := filepath.Join(root, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// GetConfigPath returns the config file path to use
func GetConfigPath(explicitPath, dir string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if found := findConfigFile(dir); found != "" {
		return found
	}
	return filepath.Join(dir, FileNames[0])
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
