package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z77ma/aspnetcore/internal/config"
	"github.com/z77ma/aspnetcore/internal/lint"
)

func TestApplyAnalyzeFlags(t *testing.T) {
	c := &cobra.Command{}
	addAnalyzeFlags(c)
	require.NoError(t, c.ParseFlags([]string{
		"--severity", "ASP0030=error",
		"--severity", "AD0001=none",
		"--exclude", "**/Migrations/**",
		"--framework", "Microsoft.AspNetCore.App",
		"--fail-on", "warning",
		"--no-source",
	}))

	cfg := config.DefaultConfig()
	require.NoError(t, applyAnalyzeFlags(c, cfg))

	assert.Equal(t, "error", cfg.Rules["ASP0030"].Severity)
	assert.Equal(t, "none", cfg.Rules["AD0001"].Severity)
	assert.Equal(t, []string{"**/Migrations/**"}, cfg.Analysis.ExcludeGlobs)
	assert.Equal(t, []string{"Microsoft.AspNetCore.App"}, cfg.Analysis.Frameworks)
	assert.Equal(t, "warning", cfg.Analysis.FailOn)
	assert.False(t, cfg.Output.ShowSource)
	assert.True(t, cfg.Output.Color, "untouched flags keep the configured value")
	assert.True(t, cfg.Analysis.Suppressions)
}

func TestApplyAnalyzeFlagsRejectsBadSeverity(t *testing.T) {
	tests := []string{"ASP0030", "=error", "ASP0030=fatal"}
	for _, arg := range tests {
		t.Run(arg, func(t *testing.T) {
			c := &cobra.Command{}
			addAnalyzeFlags(c)
			require.NoError(t, c.ParseFlags([]string{"--severity", arg}))
			assert.Error(t, applyAnalyzeFlags(c, config.DefaultConfig()))
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Program.cs")
	require.NoError(t, os.WriteFile(file, []byte("class P { }"), 0644))

	assert.Equal(t, dir, configDir(dir))
	assert.Equal(t, dir, configDir(file))
}

func TestAnalyzeCommandFailsOnThreshold(t *testing.T) {
	root := t.TempDir()
	for name, content := range map[string]string{
		"Web/Web.csproj": `<Project Sdk="Microsoft.NET.Sdk.Web" />`,
		"Web/HomeController.cs": `using Microsoft.AspNetCore.Mvc;
public class HomeController : Controller
{
    public async void Index() { }
}
`,
	} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	rootCmd.SetArgs([]string{"analyze", root, "--output", "json", "--fail-on", "warning"})

	err := Execute()
	require.ErrorIs(t, err, lint.ErrDiagnosticsFound)

	var report struct {
		Diagnostics []struct {
			ID string `json:"id"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "ASP0030", report.Diagnostics[0].ID)
}
