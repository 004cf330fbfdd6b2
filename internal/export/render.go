package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/ci-envs/internal/model"
)

// Render writes vars to w in the given format.
//
// Line-oriented formats keep derivation order. JSON and YAML emit a list of
// {name, value} entries rather than an object so the order survives too.
func Render(w io.Writer, format model.OutputFormat, vars []model.Variable) error {
	switch format {
	case model.FormatDotenv:
		return renderLines(w, vars, func(v model.Variable) string {
			return v.Name + "=" + dotenvQuote(v.Value)
		})
	case model.FormatShell:
		return renderLines(w, vars, func(v model.Variable) string {
			return "export " + v.Name + "=" + shellQuote(v.Value)
		})
	case model.FormatGitHub:
		return renderGitHub(w, vars)
	case model.FormatJSON:
		return renderJSON(w, vars)
	case model.FormatYAML:
		return renderYAML(w, vars)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func renderLines(w io.Writer, vars []model.Variable, line func(model.Variable) string) error {
	for _, v := range vars {
		if _, err := io.WriteString(w, line(v)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// renderGitHub writes heredoc blocks ready to be appended to GITHUB_ENV.
func renderGitHub(w io.Writer, vars []model.Variable) error {
	delimiter := newDelimiter()
	for _, v := range vars {
		block, err := heredoc(v.Name, v.Value, delimiter)
		if err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
		if _, err := io.WriteString(w, block); err != nil {
			return err
		}
	}
	return nil
}

func renderJSON(w io.Writer, vars []model.Variable) error {
	if vars == nil {
		vars = []model.Variable{}
	}
	data, err := json.MarshalIndent(vars, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode variables as JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderYAML(w io.Writer, vars []model.Variable) error {
	if vars == nil {
		vars = []model.Variable{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(vars); err != nil {
		return fmt.Errorf("failed to encode variables as YAML: %w", err)
	}
	return enc.Close()
}

// dotenvQuote double-quotes a value using the escapes understood by
// docker compose, GitLab dotenv reports and most dotenv loaders.
func dotenvQuote(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"$", `\$`,
	)
	return `"` + r.Replace(s) + `"`
}

// shellQuote single-quotes a value for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
