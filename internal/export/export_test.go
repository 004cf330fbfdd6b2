package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/ci-envs/internal/model"
)

// newEnvFile creates an empty GITHUB_ENV style file, as the runner does
// before each step.
func newEnvFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "github_env")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func TestFileCommand_Export(t *testing.T) {
	path := newEnvFile(t)
	f := NewFileCommand(path)
	f.delimiter = func() string { return "ghadelimiter_fixed" }

	require.NoError(t, f.Export("CI_REF_NAME", "feature/login"))
	require.NoError(t, f.Export("CI_PR_DESCRIPTION", "line one\nline two"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"CI_REF_NAME<<ghadelimiter_fixed\nfeature/login\nghadelimiter_fixed\n"+
			"CI_PR_DESCRIPTION<<ghadelimiter_fixed\nline one\nline two\nghadelimiter_fixed\n",
		string(data))
}

// TestFileCommand_RandomDelimiter checks that the default delimiter is
// unique per call and carries the runner's prefix.
func TestFileCommand_RandomDelimiter(t *testing.T) {
	path := newEnvFile(t)
	f := NewFileCommand(path)

	require.NoError(t, f.Export("A", "1"))
	require.NoError(t, f.Export("B", "2"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 6)

	firstDelim := strings.TrimPrefix(lines[0], "A<<")
	secondDelim := strings.TrimPrefix(lines[3], "B<<")
	assert.True(t, strings.HasPrefix(firstDelim, delimiterPrefix))
	assert.Equal(t, firstDelim, lines[2])
	assert.NotEqual(t, firstDelim, secondDelim)
}

func TestFileCommand_MissingFile(t *testing.T) {
	f := NewFileCommand(filepath.Join(t.TempDir(), "absent"))

	err := f.Export("CI_SHA", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing file at path")
}

// TestFileCommand_DelimiterInjection verifies that a value containing the
// delimiter is refused instead of being written.
func TestFileCommand_DelimiterInjection(t *testing.T) {
	path := newEnvFile(t)
	f := NewFileCommand(path)
	f.delimiter = func() string { return "ghadelimiter_fixed" }

	err := f.Export("CI_PR_TITLE", "x\nghadelimiter_fixed\nEVIL=1")
	require.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Empty(t, data, "nothing must be written when the value is refused")
}

func TestCommand_Export(t *testing.T) {
	var buf bytes.Buffer
	c := &Command{Out: &buf}

	require.NoError(t, c.Export("CI_PR_TITLE", "100% done\r\nnext"))
	require.NoError(t, c.Export("ODD:NAME,X", "v"))

	assert.Equal(t,
		"::set-env name=CI_PR_TITLE::100%25 done%0D%0Anext\n"+
			"::set-env name=ODD%3ANAME%2CX::v\n",
		buf.String())
}

func TestProcess_Export(t *testing.T) {
	t.Setenv("CI_ENVS_PROCESS_TEST", "")

	require.NoError(t, Process{}.Export("CI_ENVS_PROCESS_TEST", "set"))
	assert.Equal(t, "set", os.Getenv("CI_ENVS_PROCESS_TEST"))
}

// failingExporter fails on the named variable and records the rest.
type failingExporter struct {
	failOn string
	seen   []string
}

func (f *failingExporter) Export(name, value string) error {
	if name == f.failOn {
		return errors.New("boom")
	}
	f.seen = append(f.seen, name)
	return nil
}

func TestMulti_StopsAtFirstError(t *testing.T) {
	first := &Collector{}
	failing := &failingExporter{failOn: "B"}
	last := &Collector{}
	m := Multi{first, failing, last}

	require.NoError(t, m.Export("A", "1"))
	require.Error(t, m.Export("B", "2"))

	assert.Equal(t, []model.Variable{{Name: "A", Value: "1"}, {Name: "B", Value: "2"}}, first.Vars)
	assert.Equal(t, []string{"A"}, failing.seen)
	assert.Equal(t, []model.Variable{{Name: "A", Value: "1"}}, last.Vars,
		"exporters after the failing one must not see B")
}

func TestForGitHub(t *testing.T) {
	t.Run("environment file", func(t *testing.T) {
		path := newEnvFile(t)
		t.Setenv("CI_ENVS_FORGITHUB", "")

		e, err := ForGitHub(path, nil)
		require.NoError(t, err)
		require.NoError(t, e.Export("CI_ENVS_FORGITHUB", "yes"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "CI_ENVS_FORGITHUB<<"+delimiterPrefix)
		assert.Equal(t, "yes", os.Getenv("CI_ENVS_FORGITHUB"))
	})

	t.Run("command fallback", func(t *testing.T) {
		var buf bytes.Buffer
		t.Setenv("CI_ENVS_FORGITHUB", "")

		e, err := ForGitHub("", &buf)
		require.NoError(t, err)
		require.NoError(t, e.Export("CI_ENVS_FORGITHUB", "cmd"))
		assert.Equal(t, "::set-env name=CI_ENVS_FORGITHUB::cmd\n", buf.String())
	})

	t.Run("no target", func(t *testing.T) {
		_, err := ForGitHub("", nil)
		assert.ErrorIs(t, err, ErrNoGitHubTarget)
	})
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "failed to export CI_SHA: 100% broken\nsecond line"))
	assert.Equal(t, "::error::failed to export CI_SHA: 100%25 broken%0Asecond line\n", buf.String())
}
