package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/ci-envs/internal/export"
	"github.com/shinji-kodama/ci-envs/internal/model"
	"github.com/shinji-kodama/ci-envs/internal/publish"
)

// NewPrintCommand creates the "print" cobra command: a dry run of export
// that renders the derived variables to stdout and exports nothing.
func NewPrintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the CI_* variables without exporting them",
		Long: `Derive the CI_* variables and print them to stdout.

The default format is dotenv. Use --git-fallback to derive SHA, ref and
repository from the local checkout when running outside CI.

Examples:
  ci-envs print
  ci-envs print --format json
  eval "$(ci-envs print --format shell --git-fallback)"`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			reader, event, err := resolveSources(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			// Collector records the variable set without touching the host.
			var collector export.Collector
			if _, err := publish.Run(reader, event, cfg.Prefix, &collector); err != nil {
				return err
			}
			return renderTo(cmd.OutOrStdout(), "", cfg.OutputFormat(model.FormatDotenv), collector.Vars)
		},
	}
}
