package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/ci-envs/internal/model"
	"github.com/shinji-kodama/ci-envs/internal/slug"
)

// transforms maps --transform values to slug package functions.
var transforms = map[string]func(string) string{
	"slug":           slug.Slugify,
	"underscore":     slug.SlugifyUnderscore,
	"owner":          slug.RepositoryOwner,
	"name":           slug.RepositoryName,
	"ref-name":       slug.RefName,
	"sha-short":      slug.ShaShort,
	"head-ref-short": slug.HeadRefShort,
}

func transformNames() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// slugFlags holds the flag values for the slug command.
type slugFlags struct {
	transform string
}

// NewSlugCommand creates the "slug" cobra command, which exposes the
// string transformations to shell scripts.
func NewSlugCommand() *cobra.Command {
	flags := &slugFlags{}

	cmd := &cobra.Command{
		Use:   "slug [text...]",
		Short: "Slugify text from arguments or stdin",
		Long: `Apply one of the ci-envs string transformations and print the result.

Each argument is transformed separately and printed on its own line. Without
arguments, every line of stdin is transformed.

Examples:
  ci-envs slug "Feature/Login Form"            # feature-login-form
  ci-envs slug -t underscore feature/login     # feature_login
  git branch --show-current | ci-envs slug`,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlug(cmd.InOrStdin(), cmd.OutOrStdout(), args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.transform, "transform", "t", "slug",
		"Transformation: "+strings.Join(transformNames(), ", "))

	return cmd
}

// runSlug transforms args, or stdin lines when args is empty.
func runSlug(in io.Reader, out io.Writer, args []string, flags *slugFlags) error {
	fn, ok := transforms[flags.transform]
	if !ok {
		return model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("invalid transform %q (valid: %s)", flags.transform, strings.Join(transformNames(), ", ")))
	}

	if len(args) > 0 {
		for _, arg := range args {
			fmt.Fprintln(out, fn(arg))
		}
		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fmt.Fprintln(out, fn(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to read stdin", err)
	}
	return nil
}
