package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/z77ma/aspnetcore/internal/logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aspnetlint",
	Short: "Static analyzer for ASP.NET Core projects",
	Long: `aspnetlint parses the C# sources of ASP.NET Core projects, binds them
against the framework types their project files reference, and reports
framework misuse such as async void controller actions, hub methods,
filters and Razor Page handlers.

Findings can be suppressed with #pragma warning disable/restore or with an
"// aspnetlint:ignore ID" comment on the offending line or the line above.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		configPath, _ := cmd.Flags().GetString("config")
		app := NewAppConfig(logger.New(cmd.ErrOrStderr(), verbose), configPath, verbose)
		cmd.SetContext(context.WithValue(cmd.Context(), configKey, app))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.SetVersionTemplate("aspnetlint {{.Version}}\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (text, json, yaml); defaults to the configured format")
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default: .aspnetlint.{yaml,yml,toml,json} in the analyzed directory or home)")
}
