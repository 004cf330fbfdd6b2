// Package cli implements the cobra-based CLI commands for ci-envs.
//
// Each subcommand (export, print, slug) is defined in its own file within
// this package. This file defines the root command that serves as the
// parent for all subcommands and handles global flags and configuration.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shinji-kodama/ci-envs/internal/config"
	"github.com/shinji-kodama/ci-envs/internal/env"
	"github.com/shinji-kodama/ci-envs/internal/export"
	"github.com/shinji-kodama/ci-envs/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool

	// configPath is the explicit config file given with --config.
	configPath string

	// settings layers defaults, the config file, CI_ENVS_* variables and
	// flags. It is recreated by every NewRootCommand call.
	settings *viper.Viper
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Colour helpers. fatih/color disables them for non-TTY output and when
// NO_COLOR is set.
var (
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	dimColor     = color.New(color.Faint).SprintFunc()
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action; it only provides
// help text and global flags. Actual functionality is provided by
// subcommands (export, print, slug).
func NewRootCommand() *cobra.Command {
	settings = config.New()
	verbose = false
	configPath = ""

	rootCmd := &cobra.Command{
		Use:   "ci-envs",
		Short: "Export slugged CI metadata as environment variables",
		Long: `ci-envs reads the CI runner's environment (repository, refs, commit SHA,
pull request data, run metadata), derives normalized slug variants that are
safe for identifiers, file names and resource names, and publishes them as
CI_* environment variables for later pipeline steps.

Inside GitHub Actions, "ci-envs export" writes to the GITHUB_ENV file.
"ci-envs print" renders the same variables as dotenv, shell, JSON or YAML.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute formats them, and reports them to the runner.
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default: ./"+config.DefaultFileName+" if present)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.String("format", "", "Output format: github, dotenv, shell, json, yaml")
	flags.String("prefix", model.DefaultPrefix, "Prefix for exported variable names")
	flags.String("event-path", "", "Event payload file (default: $GITHUB_EVENT_PATH)")
	flags.Bool("git-fallback", false, "Fill missing SHA, ref and repository from the local git checkout")
	flags.String("git-dir", "", "Working copy used by --git-fallback (default: current directory)")

	// Flags override the config file and CI_ENVS_* variables, but only
	// when set explicitly; viper checks pflag's Changed state.
	_ = settings.BindPFlag(config.KeyFormat, flags.Lookup("format"))
	_ = settings.BindPFlag(config.KeyPrefix, flags.Lookup("prefix"))
	_ = settings.BindPFlag(config.KeyEventPath, flags.Lookup("event-path"))
	_ = settings.BindPFlag(config.KeyGitFallback, flags.Lookup("git-fallback"))
	_ = settings.BindPFlag(config.KeyGitDir, flags.Lookup("git-dir"))

	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewPrintCommand())
	rootCmd.AddCommand(NewSlugCommand())

	return rootCmd
}

// loadConfig resolves the effective configuration for the running command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(settings, configPath)
	if err != nil {
		return nil, err
	}
	VerboseLog("Config: prefix=%q format=%q event_path=%q git_fallback=%t",
		cfg.Prefix, cfg.Format, cfg.EventPath, cfg.GitFallback)
	return cfg, nil
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError types carry their own exit codes; other errors default to
// exit code 1. Inside GitHub Actions the failure is also written as an
// ::error:: workflow command so it shows up as the step's failure reason.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	os.Exit(int(reportError(err, env.OSReader{}, os.Stdout, os.Stderr)))
}

// reportError prints err and returns the exit code for it.
func reportError(err error, r env.Reader, stdout, stderr io.Writer) model.ExitCode {
	code := model.ExitGeneralError
	message := err.Error()
	var underlying error

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		code = cliErr.Code
		message = cliErr.Message
		underlying = cliErr.Err
	}

	printError(stderr, message, underlying)
	if env.InGitHubActions(r) {
		_ = export.WriteError(stdout, err.Error())
	}
	return code
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --format flag.
func printError(w io.Writer, message string, underlying error) {
	if settings != nil && settings.GetString(config.KeyFormat) == model.FormatJSON.String() {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "%s %s: %v\n", errorColor("Error:"), message, underlying)
	} else {
		fmt.Fprintf(w, "%s %s\n", errorColor("Error:"), message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, dimColor("[verbose] ")+format+"\n", args...)
	}
}
