package model

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultPrefix is prepended to every exported variable name.
// Downstream pipeline steps key off the resulting names, so the default
// must stay "CI_".
const DefaultPrefix = "CI_"

// Variable name suffixes. The exported name is prefix + suffix, e.g.
// "CI_" + SuffixRefNameSlug = "CI_REF_NAME_SLUG".
const (
	SuffixRepository          = "REPOSITORY"
	SuffixRepositorySlug      = "REPOSITORY_SLUG"
	SuffixRepositoryOwner     = "REPOSITORY_OWNER"
	SuffixRepositoryOwnerSlug = "REPOSITORY_OWNER_SLUG"
	SuffixRepositoryName      = "REPOSITORY_NAME"
	SuffixRepositoryNameSlug  = "REPOSITORY_NAME_SLUG"

	SuffixRef                    = "REF"
	SuffixRefSlug                = "REF_SLUG"
	SuffixRefName                = "REF_NAME"
	SuffixRefNameSlug            = "REF_NAME_SLUG"
	SuffixActionRefName          = "ACTION_REF_NAME"
	SuffixActionRefNameSlug      = "ACTION_REF_NAME_SLUG"
	SuffixHeadRef                = "HEAD_REF"
	SuffixHeadRefSlug            = "HEAD_REF_SLUG"
	SuffixCleanHeadRefSlug       = "CLEAN_HEAD_REF_SLUG"
	SuffixBaseRef                = "BASE_REF"
	SuffixBaseRefSlug            = "BASE_REF_SLUG"
	SuffixSHA                    = "SHA"
	SuffixSHAShort               = "SHA_SHORT"
	SuffixPullRequestTitle       = "PR_TITLE"
	SuffixPullRequestDescription = "PR_DESCRIPTION"

	SuffixActor     = "ACTOR"
	SuffixEventName = "EVENT_NAME"
	SuffixRunID     = "RUN_ID"
	SuffixRunNumber = "RUN_NUMBER"
	SuffixWorkflow  = "WORKFLOW"
	SuffixAction    = "ACTION"
)

// Variable is a single name/value pair to be exported for later
// pipeline steps. Values may be empty; an empty value is still exported.
type Variable struct {
	// Name is the full environment variable name, prefix included.
	Name string `json:"name" yaml:"name"`

	// Value is the exported value, verbatim.
	Value string `json:"value" yaml:"value"`
}

// String returns the NAME=value form used in verbose logs.
func (v Variable) String() string {
	return v.Name + "=" + v.Value
}

// OutputFormat selects how variables are rendered or exported.
type OutputFormat string

const (
	// FormatGitHub exports through the GitHub Actions runner: the GITHUB_ENV
	// file command when available, the legacy set-env command otherwise.
	FormatGitHub OutputFormat = "github"

	// FormatDotenv renders KEY="value" lines.
	FormatDotenv OutputFormat = "dotenv"

	// FormatShell renders `export KEY='value'` lines suitable for eval.
	FormatShell OutputFormat = "shell"

	// FormatJSON renders an array of {"name", "value"} objects.
	FormatJSON OutputFormat = "json"

	// FormatYAML renders a sequence of {name, value} mappings.
	FormatYAML OutputFormat = "yaml"
)

// String returns the string representation of OutputFormat.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks whether the OutputFormat is one of the predefined formats.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatGitHub, FormatDotenv, FormatShell, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// ParseOutputFormat converts a string to an OutputFormat.
// Matching is case-insensitive.
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %q (valid: github, dotenv, shell, json, yaml)", s)
	}
	return format, nil
}

// envNameRegex matches portable environment variable names (POSIX
// "portable filename" rules: letter or underscore first, then letters,
// digits and underscores).
var envNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateVariableName checks that name can be exported as an environment
// variable on every supported runner.
func ValidateVariableName(name string) error {
	if name == "" {
		return fmt.Errorf("variable name must not be empty")
	}
	if !envNameRegex.MatchString(name) {
		return fmt.Errorf("invalid variable name %q: must start with a letter or underscore and contain only letters, digits and underscores", name)
	}
	return nil
}

// ValidatePrefix checks a variable name prefix. An empty prefix is
// allowed; otherwise prefix + any suffix must form a valid name.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	if err := ValidateVariableName(prefix); err != nil {
		return fmt.Errorf("invalid prefix: %w", err)
	}
	return nil
}

// ExitCode defines the process exit codes of the ci-envs CLI.
// Pipelines can branch on them to tell configuration mistakes apart from
// runner failures.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates invalid flags, config file or config
	// environment variables.
	ExitConfigError ExitCode = 2

	// ExitEventPayloadError indicates the event payload file exists but
	// could not be read or parsed.
	ExitEventPayloadError ExitCode = 3

	// ExitExportFailed indicates a variable could not be exported.
	// Variables after the failing one were not exported.
	ExitExportFailed ExitCode = 4

	// ExitGitError indicates the git fallback could not query the
	// local repository.
	ExitGitError ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
