// Package export publishes derived variables to the CI host.
//
// The Exporter interface is the single capability the publisher needs.
// Implementations cover the GitHub Actions runner protocols (FileCommand,
// Command), the current process (Process), in-memory collection for dry
// runs (Collector) and fan-out (Multi). Render turns a collected list into
// a text format for other CI systems or local shells.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/shinji-kodama/ci-envs/internal/model"
)

// Exporter makes a variable visible to later pipeline steps.
type Exporter interface {
	Export(name, value string) error
}

// delimiterPrefix starts every heredoc delimiter written to GITHUB_ENV.
// The runner only requires the delimiter to be absent from the value; a
// random suffix guarantees that for untrusted input such as PR bodies.
const delimiterPrefix = "ghadelimiter_"

// newDelimiter returns a fresh heredoc delimiter.
func newDelimiter() string {
	return delimiterPrefix + uuid.NewString()
}

// heredoc formats a multi-line safe NAME<<DELIM block. It fails when the
// delimiter occurs in the name or value, which would let the value inject
// extra variables.
func heredoc(name, value, delimiter string) (string, error) {
	if strings.Contains(name, delimiter) {
		return "", fmt.Errorf("unexpected input: name should not contain the delimiter %q", delimiter)
	}
	if strings.Contains(value, delimiter) {
		return "", fmt.Errorf("unexpected input: value should not contain the delimiter %q", delimiter)
	}
	return name + "<<" + delimiter + "\n" + value + "\n" + delimiter + "\n", nil
}

// FileCommand appends variables to the GitHub Actions environment file
// (the path in GITHUB_ENV). The runner loads the file into the
// environment of every subsequent step.
type FileCommand struct {
	// Path is the environment file. It must already exist; the runner
	// creates it before the step starts.
	Path string

	// delimiter generates heredoc delimiters. Replaced in tests.
	delimiter func() string
}

// NewFileCommand creates a FileCommand exporter for path.
func NewFileCommand(path string) *FileCommand {
	return &FileCommand{Path: path, delimiter: newDelimiter}
}

// Export appends one NAME<<DELIM block to the environment file.
func (f *FileCommand) Export(name, value string) error {
	if _, err := os.Stat(f.Path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("missing file at path: %s", f.Path)
		}
		return fmt.Errorf("failed to stat %s: %w", f.Path, err)
	}

	delimiter := newDelimiter
	if f.delimiter != nil {
		delimiter = f.delimiter
	}
	block, err := heredoc(name, value, delimiter())
	if err != nil {
		return err
	}

	// O_APPEND without O_CREATE: the file is owned by the runner.
	file, err := os.OpenFile(f.Path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	if _, err := file.WriteString(block); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s to %s: %w", name, f.Path, err)
	}
	return file.Close()
}

// Command writes the legacy `::set-env` workflow command. Runners only
// honour it when ACTIONS_ALLOW_UNSECURE_COMMANDS is enabled; it is the
// fallback when GITHUB_ENV is not available.
type Command struct {
	Out io.Writer
}

// Export writes `::set-env name=NAME::VALUE` with workflow command escaping.
func (c *Command) Export(name, value string) error {
	_, err := fmt.Fprintf(c.Out, "::set-env name=%s::%s\n", escapeProperty(name), escapeData(value))
	return err
}

// WriteError writes an `::error::` workflow command, which the runner
// shows as an annotation and as the failure reason of the step.
func WriteError(w io.Writer, message string) error {
	_, err := fmt.Fprintf(w, "::error::%s\n", escapeData(message))
	return err
}

// escapeData escapes a workflow command message.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

// escapeProperty escapes a workflow command property value.
func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}

// Process sets the variable in the current process environment, so code
// running later in the same process observes the exported value.
type Process struct{}

// Export calls os.Setenv.
func (Process) Export(name, value string) error {
	if err := os.Setenv(name, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", name, err)
	}
	return nil
}

// Multi exports to every exporter in order and stops at the first error.
type Multi []Exporter

// Export forwards to each exporter.
func (m Multi) Export(name, value string) error {
	for _, e := range m {
		if err := e.Export(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Collector records exported variables in order.
type Collector struct {
	Vars []model.Variable
}

// Export appends the variable.
func (c *Collector) Export(name, value string) error {
	c.Vars = append(c.Vars, model.Variable{Name: name, Value: value})
	return nil
}

// ErrNoGitHubTarget is returned by ForGitHub when neither GITHUB_ENV nor
// a fallback writer is available.
var ErrNoGitHubTarget = errors.New("no GitHub Actions export target: GITHUB_ENV is unset")

// ForGitHub assembles the exporter chain used inside GitHub Actions: the
// current process first, then the environment file when envFile is set,
// otherwise the set-env command on commandOut.
func ForGitHub(envFile string, commandOut io.Writer) (Exporter, error) {
	if envFile != "" {
		return Multi{Process{}, NewFileCommand(envFile)}, nil
	}
	if commandOut == nil {
		return nil, ErrNoGitHubTarget
	}
	return Multi{Process{}, &Command{Out: commandOut}}, nil
}
