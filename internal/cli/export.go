// Package cli: export.go implements the "ci-envs export" command.
//
// export is the command a pipeline runs once per job. With the default
// github format it writes every variable to the runner's GITHUB_ENV file
// (falling back to the ::set-env command when the file is unavailable).
// Other formats append the rendered variables to --output, which covers
// GitLab dotenv reports and CircleCI's $BASH_ENV.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/ci-envs/internal/env"
	"github.com/shinji-kodama/ci-envs/internal/export"
	"github.com/shinji-kodama/ci-envs/internal/model"
	"github.com/shinji-kodama/ci-envs/internal/publish"
)

// exportFlags holds the flag values for the export command.
type exportFlags struct {
	// output is the file rendered variables are appended to.
	// Empty means stdout. Ignored by the github format.
	output string
}

// NewExportCommand creates the "export" cobra command.
func NewExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export CI_* variables for later pipeline steps",
		Long: `Derive the CI_* variables from the runner environment and export them.

With --format github (the default) variables are appended to the file named
by GITHUB_ENV. The first variable that cannot be exported aborts the run.

Examples:
  ci-envs export
  ci-envs export --format dotenv --output build.env
  ci-envs export --format shell --output "$BASH_ENV"`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Append rendered variables to this file instead of stdout (non-github formats)")

	return cmd
}

// runExport is the main logic function for the export command.
func runExport(cmd *cobra.Command, flags *exportFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reader, event, err := resolveSources(cmd.Context(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	format := cfg.OutputFormat(model.FormatGitHub)
	if format != model.FormatGitHub {
		vars := publish.Derive(cfg.Prefix, publish.ReadInputs(reader, event))
		if err := renderTo(cmd.OutOrStdout(), flags.output, format, vars); err != nil {
			return err
		}
		printExportSummary(cmd.ErrOrStderr(), len(vars), flags.output)
		return nil
	}

	envFile := reader.Getenv(env.GitHubEnv)
	if envFile == "" {
		VerboseLog("%s is not set, falling back to the set-env command", env.GitHubEnv)
	}
	exporter, err := export.ForGitHub(envFile, cmd.OutOrStdout())
	if err != nil {
		return model.WrapCLIError(model.ExitExportFailed, "no export target", err)
	}

	vars, err := publish.Run(reader, event, cfg.Prefix, exporter)
	if err != nil {
		return err
	}
	for _, v := range vars {
		VerboseLog("exported %s", v)
	}
	printExportSummary(cmd.ErrOrStderr(), len(vars), envFile)
	return nil
}

// renderTo renders vars to stdout, or appends them to path when set.
func renderTo(stdout io.Writer, path string, format model.OutputFormat, vars []model.Variable) error {
	if path == "" {
		if err := export.Render(stdout, format, vars); err != nil {
			return model.WrapCLIError(model.ExitExportFailed, "failed to render variables", err)
		}
		return nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return model.WrapCLIError(model.ExitExportFailed, fmt.Sprintf("failed to open %s", path), err)
	}
	if err := export.Render(file, format, vars); err != nil {
		_ = file.Close()
		return model.WrapCLIError(model.ExitExportFailed, fmt.Sprintf("failed to write %s", path), err)
	}
	if err := file.Close(); err != nil {
		return model.WrapCLIError(model.ExitExportFailed, fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// printExportSummary writes a one-line result to w (stderr, so stdout
// stays machine-readable).
func printExportSummary(w io.Writer, count int, target string) {
	if target == "" {
		target = "stdout"
	}
	fmt.Fprintf(w, "%s Exported %d variables to %s\n", successColor("✓"), count, target)
}
