package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/z77ma/aspnetcore/internal/config"
	"github.com/z77ma/aspnetcore/internal/diag"
	"github.com/z77ma/aspnetcore/internal/lint"
	"github.com/z77ma/aspnetcore/internal/logger"
	"github.com/z77ma/aspnetcore/internal/rules"
	"github.com/z77ma/aspnetcore/internal/ui"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze ASP.NET Core projects for framework misuse",
	Long: `Analyze discovers every .csproj under the given path (or the current
directory), binds each project's C# files against the framework types it
references and runs every rule over them.

The command exits with status 2 when a diagnostic reaches the --fail-on
severity, and with status 1 on any other error.

Example usage:
  aspnetlint analyze                              # Analyze current directory
  aspnetlint analyze src/Web                      # Analyze one project tree
  aspnetlint analyze --output json                # Output results as JSON
  aspnetlint analyze --severity ASP0030=error     # Escalate a rule
  aspnetlint analyze --exclude "**/Migrations/**" # Skip files by glob`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addAnalyzeFlags(analyzeCmd)
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("severity", nil, "override a rule severity as ID=level (error, warning, info, none)")
	cmd.Flags().StringSlice("exclude", nil, "doublestar globs of files to skip, relative to the analyzed path")
	cmd.Flags().StringSlice("framework", nil, "references given to C# files outside any project (e.g. Microsoft.AspNetCore.App)")
	cmd.Flags().Int("concurrency", 0, "maximum parallel work; 0 uses GOMAXPROCS")
	cmd.Flags().String("fail-on", "", "lowest severity that fails the run (error, warning, info, none)")
	cmd.Flags().Bool("include-generated", false, "analyze generated files as well")
	cmd.Flags().Bool("no-suppressions", false, "ignore #pragma and aspnetlint:ignore directives")
	cmd.Flags().Bool("no-source", false, "do not quote source lines in text output")
	cmd.Flags().Bool("no-color", false, "disable colored output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	targetPath := "."
	if len(args) > 0 {
		targetPath = args[0]
	}

	absPath, pathErr := filepath.Abs(targetPath)
	if pathErr != nil {
		return fmt.Errorf("failed to resolve path: %w", pathErr)
	}
	if _, statErr := os.Stat(absPath); os.IsNotExist(statErr) {
		return fmt.Errorf("path does not exist: %s", absPath)
	}

	app := appConfig(cmd)
	cfg, err := app.loadConfig(configDir(absPath))
	if err != nil {
		return err
	}
	if err := applyAnalyzeFlags(cmd, cfg); err != nil {
		return err
	}
	format := outputFormat(cmd, cfg.Output.Format)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !contains(config.OutputFormats, format) {
		return fmt.Errorf("%w: %q", config.ErrUnsupportedFormat, format)
	}

	app.Logger.Debugf("Analyzing codebase at: %s", absPath)

	uiLog := logger.NewUILogger(app.Logger)
	linter, err := lint.New(cfg, rules.All(), uiLog)
	if err != nil {
		return err
	}

	ctx := withContext(cmd.Context())
	var report *lint.Report
	interactive := logger.IsInteractive() && format == "text" && !app.Verbose
	if interactive {
		err = ui.RunSpinner(ctx, cmd.ErrOrStderr(), "Analyzing "+filepath.Base(absPath), func(ctx context.Context, s logger.Spinner) error {
			uiLog.Attach(s)
			defer uiLog.Detach()
			var e error
			report, e = linter.Run(ctx, absPath)
			return e
		})
	} else {
		report, err = linter.Run(ctx, absPath)
	}
	if err != nil {
		return err
	}

	opts := ui.TextOptions{
		ShowSource: cfg.Output.ShowSource,
		Color:      cfg.Output.Color && logger.IsInteractive(),
	}
	if err := ui.Render(cmd.OutOrStdout(), report, format, opts); err != nil {
		return err
	}
	if report.Exceeds(cfg.FailOnSeverity()) {
		return lint.ErrDiagnosticsFound
	}
	return nil
}

// applyAnalyzeFlags layers explicitly set flags over cfg.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("severity") {
		overrides, _ := flags.GetStringArray("severity")
		for _, o := range overrides {
			id, level, ok := strings.Cut(o, "=")
			if !ok || strings.TrimSpace(id) == "" {
				return fmt.Errorf("invalid --severity %q: expected ID=level", o)
			}
			if _, err := diag.ParseSeverity(level); err != nil {
				return fmt.Errorf("invalid --severity %q: %w", o, err)
			}
			if cfg.Rules == nil {
				cfg.Rules = map[string]config.RuleConfig{}
			}
			cfg.Rules[strings.TrimSpace(id)] = config.RuleConfig{Severity: level}
		}
	}
	if flags.Changed("exclude") {
		globs, _ := flags.GetStringSlice("exclude")
		cfg.Analysis.ExcludeGlobs = append(cfg.Analysis.ExcludeGlobs, globs...)
	}
	if flags.Changed("framework") {
		cfg.Analysis.Frameworks, _ = flags.GetStringSlice("framework")
	}
	if flags.Changed("concurrency") {
		cfg.Analysis.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("fail-on") {
		cfg.Analysis.FailOn, _ = flags.GetString("fail-on")
	}
	if flags.Changed("include-generated") {
		cfg.Analysis.IncludeGenerated, _ = flags.GetBool("include-generated")
	}
	if off, _ := flags.GetBool("no-suppressions"); off {
		cfg.Analysis.Suppressions = false
	}
	if off, _ := flags.GetBool("no-source"); off {
		cfg.Output.ShowSource = false
	}
	if off, _ := flags.GetBool("no-color"); off {
		cfg.Output.Color = false
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
