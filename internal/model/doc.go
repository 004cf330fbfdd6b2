// Package model defines the value types shared across the ci-envs CLI.
//
// This package contains pure data structures with no external dependencies:
// exported variables (Variable), the variable name catalogue (Suffix*
// constants), output formats (OutputFormat), and the exit codes (ExitCode)
// and error type (CLIError) the CLI layer translates into process exit
// statuses.
package model
