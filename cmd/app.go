package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/z77ma/aspnetcore/internal/config"
	"github.com/z77ma/aspnetcore/internal/logger"
)

type contextKey string

// configKey is the context key of the AppConfig.
const configKey contextKey = "config"

// AppConfig holds all the shared configuration and dependencies
type AppConfig struct {
	Logger     logger.Logger
	ConfigPath string
	Verbose    bool
}

// NewAppConfig creates a new configuration instance
func NewAppConfig(log logger.Logger, configPath string, verbose bool) *AppConfig {
	return &AppConfig{
		Logger:     log,
		ConfigPath: configPath,
		Verbose:    verbose,
	}
}

// appConfig returns the AppConfig stored by the root command, or one that
// discards logs when a command runs outside of it.
func appConfig(cmd *cobra.Command) *AppConfig {
	if ctx := cmd.Context(); ctx != nil {
		if app, ok := ctx.Value(configKey).(*AppConfig); ok {
			return app
		}
	}
	return NewAppConfig(logger.Nop{}, "", false)
}

// loadConfig loads the config that applies to dir.
func (a *AppConfig) loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.LoadConfig(a.ConfigPath, dir)
	if err != nil {
		return nil, err
	}
	if path := config.GetConfigPath(a.ConfigPath, dir); a.ConfigPath != "" || fileExists(path) {
		a.Logger.Debugf("using config %s", path)
	}
	return cfg, nil
}

// outputFormat returns the --output flag when given and fallback otherwise.
func outputFormat(cmd *cobra.Command, fallback string) string {
	if f, _ := cmd.Flags().GetString("output"); f != "" {
		return f
	}
	return fallback
}

// configDir is the directory config files are searched in for target.
func configDir(target string) string {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return filepath.Dir(target)
	}
	return target
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func withContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
