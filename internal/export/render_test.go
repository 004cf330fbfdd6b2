package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/ci-envs/internal/model"
)

var renderVars = []model.Variable{
	{Name: "CI_REF_NAME", Value: "feature/login"},
	{Name: "CI_PR_TITLE", Value: `Fix "quotes" & it's $HOME`},
	{Name: "CI_PR_DESCRIPTION", Value: "a\nb"},
	{Name: "CI_ACTOR", Value: ""},
}

func TestRender_Dotenv(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, model.FormatDotenv, renderVars))

	assert.Equal(t, strings.Join([]string{
		`CI_REF_NAME="feature/login"`,
		`CI_PR_TITLE="Fix \"quotes\" & it's \$HOME"`,
		`CI_PR_DESCRIPTION="a\nb"`,
		`CI_ACTOR=""`,
	}, "\n")+"\n", buf.String())
}

func TestRender_Shell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, model.FormatShell, renderVars))

	assert.Equal(t, strings.Join([]string{
		`export CI_REF_NAME='feature/login'`,
		`export CI_PR_TITLE='Fix "quotes" & it'\''s $HOME'`,
		"export CI_PR_DESCRIPTION='a\nb'",
		`export CI_ACTOR=''`,
	}, "\n")+"\n", buf.String())
}

func TestRender_GitHub(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, model.FormatGitHub, renderVars[:1]))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	delim := strings.TrimPrefix(lines[0], "CI_REF_NAME<<")
	assert.True(t, strings.HasPrefix(delim, delimiterPrefix))
	assert.Equal(t, "feature/login", lines[1])
	assert.Equal(t, delim, lines[2])
}

// TestRender_JSON verifies that JSON output keeps derivation order.
func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, model.FormatJSON, renderVars))

	var decoded []model.Variable
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, renderVars, decoded)
}

func TestRender_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, model.FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, model.FormatYAML, renderVars))

	var decoded []model.Variable
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, renderVars, decoded)
	assert.True(t, strings.HasPrefix(buf.String(), "- name: CI_REF_NAME\n"))
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, model.OutputFormat("xml"), renderVars)
	assert.Error(t, err)
}
