package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z77ma/aspnetcore/internal/diag"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, "text", c.Output.Format)
	assert.True(t, c.Analysis.Suppressions)
	assert.Equal(t, diag.SevError, c.FailOnSeverity())
	assert.Contains(t, c.Analysis.ExcludePaths, "obj")
}

func TestLoadConfigFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: ".aspnetlint.yaml",
			content: `analysis:
  frameworks: [Microsoft.AspNetCore.App]
  fail_on: warning
output:
  format: json
rules:
  ASP0030:
    severity: error
`,
		},
		{
			name: "toml",
			file: ".aspnetlint.toml",
			content: `[analysis]
frameworks = ["Microsoft.AspNetCore.App"]
fail_on = "warning"

[output]
format = "json"

[rules.ASP0030]
severity = "error"
`,
		},
		{
			name: "json",
			file: ".aspnetlint.json",
			content: `{
  "analysis": {"frameworks": ["Microsoft.AspNetCore.App"], "fail_on": "warning"},
  "output": {"format": "json"},
  "rules": {"ASP0030": {"severity": "error"}}
}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("HOME", t.TempDir())
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0644))

			c, err := LoadConfig("", dir)
			require.NoError(t, err)
			assert.Equal(t, []string{"Microsoft.AspNetCore.App"}, c.Analysis.Frameworks)
			assert.Equal(t, "json", c.Output.Format)
			assert.Equal(t, diag.SevWarning, c.FailOnSeverity())
			assert.Equal(t, map[string]diag.Severity{"ASP0030": diag.SevError}, c.Severities())
			// unset keys keep their defaults
			assert.True(t, c.Analysis.Suppressions)
			assert.Contains(t, c.Analysis.ExcludePaths, ".git")
		})
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := LoadConfig("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"), dir)
	assert.Error(t, err)

	ini := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(ini, []byte("x=1"), 0644))
	_, err = LoadConfig(ini, dir)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("output:\n  format: xml\nrules:\n  ASP0030:\n    severity: loud\n"), 0644))
	_, err = LoadConfig(bad, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "rules.ASP0030.severity")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	for _, name := range FileNames {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			c := DefaultConfig()
			c.Analysis.Frameworks = []string{"Microsoft.NET.Sdk.Web"}
			c.Rules["ASP0030"] = RuleConfig{Severity: "none"}
			require.NoError(t, SaveConfig(c, path))

			loaded, err := LoadConfig(path, "")
			require.NoError(t, err)
			assert.Equal(t, c.Analysis.Frameworks, loaded.Analysis.Frameworks)
			assert.Equal(t, diag.SevNone, loaded.Severities()["ASP0030"])
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	assert.Equal(t, "explicit.toml", GetConfigPath("explicit.toml", dir))
	assert.Equal(t, filepath.Join(dir, ".aspnetlint.yaml"), GetConfigPath("", dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".aspnetlint.json"), []byte("{}"), 0644))
	assert.Equal(t, filepath.Join(dir, ".aspnetlint.json"), GetConfigPath("", dir))
}
