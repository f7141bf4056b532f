package cmd

import (
	"github.com/spf13/cobra"

	"github.com/z77ma/aspnetcore/internal/analysis"
	"github.com/z77ma/aspnetcore/internal/logger"
	"github.com/z77ma/aspnetcore/internal/rules"
	"github.com/z77ma/aspnetcore/internal/ui"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules aspnetlint reports",
	Long: `Rules lists every diagnostic aspnetlint can report with its default
severity. Severities can be changed per rule in the config file or with
analyze --severity ID=level.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		descs := analysis.NewDriver(rules.All()).Descriptors()
		descs = append(descs, analysis.FailureDescriptor)
		return ui.RenderRules(cmd.OutOrStdout(), descs, outputFormat(cmd, "text"), logger.IsInteractive())
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
