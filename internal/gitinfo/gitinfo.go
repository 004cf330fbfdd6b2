// Package gitinfo reads commit, ref and repository identity from a local
// Git checkout.
//
// It backs the git fallback of ci-envs: when the CI runner did not provide
// GITHUB_SHA, GITHUB_REF or GITHUB_REPOSITORY (a developer laptop, or a CI
// system without GitHub's variables), the same values are derived from the
// working copy so the variable set can still be computed.
//
// Design decisions:
//   - We shell out to `git` rather than using a Go Git library, so the
//     result matches exactly what the user's git reports (worktrees,
//     alternates, includeIf config).
//   - Errors from git are wrapped in model.CLIError with ExitGitError.
package gitinfo

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/ci-envs/internal/env"
	"github.com/shinji-kodama/ci-envs/internal/model"
)

// Repo queries a single Git working copy.
type Repo struct {
	// Dir is the working copy directory passed to `git -C`.
	// Empty means the current directory.
	Dir string

	// Remote is the remote whose URL identifies the repository.
	// Defaults to "origin".
	Remote string
}

// NewRepo creates a Repo for dir using the "origin" remote.
func NewRepo(dir string) *Repo {
	return &Repo{Dir: dir, Remote: "origin"}
}

// HeadSHA returns the full commit SHA of HEAD.
func (r *Repo) HeadSHA(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// HeadRef returns the full ref HEAD points to (e.g. "refs/heads/main").
// Returns "" without error when HEAD is detached.
func (r *Repo) HeadRef(ctx context.Context) (string, error) {
	// -q makes symbolic-ref exit 1 silently for a detached HEAD, which
	// is not an error for us.
	out, err := r.run(ctx, "symbolic-ref", "-q", "HEAD")
	if err != nil {
		if isExitCode(err, 1) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Repository returns "owner/name" parsed from the remote URL, or "" when
// the remote does not exist or its URL has no owner/name path.
func (r *Repo) Repository(ctx context.Context) (string, error) {
	remote := r.Remote
	if remote == "" {
		remote = "origin"
	}
	out, err := r.run(ctx, "remote", "get-url", remote)
	if err != nil {
		// A missing remote is normal for fresh local repositories.
		return "", nil
	}
	return ParseRemoteURL(strings.TrimSpace(out)), nil
}

// Fallback returns the GITHUB_* values that can be derived from the
// working copy, for use with env.Overlay. Only HeadSHA failing is fatal:
// it means dir is not a Git repository.
func (r *Repo) Fallback(ctx context.Context) (env.MapReader, error) {
	sha, err := r.HeadSHA(ctx)
	if err != nil {
		return nil, err
	}
	values := env.MapReader{env.GitHubSHA: sha}

	ref, err := r.HeadRef(ctx)
	if err != nil {
		return nil, err
	}
	if ref != "" {
		values[env.GitHubRef] = ref
	}

	repository, err := r.Repository(ctx)
	if err != nil {
		return nil, err
	}
	if repository != "" {
		values[env.GitHubRepository] = repository
	}
	return values, nil
}

// ParseRemoteURL extracts "owner/name" from a Git remote URL. It accepts
// https and ssh URLs as well as scp-like "git@host:owner/name.git". Nested
// groups keep only the last two segments ("group/sub/name" → "sub/name").
// Returns "" when fewer than two path segments are present.
func ParseRemoteURL(remote string) string {
	path := remote
	if u, err := url.Parse(remote); err == nil && u.Scheme != "" && u.Host != "" {
		path = u.Path
	} else if _, after, ok := strings.Cut(remote, ":"); ok && !strings.Contains(remote, "://") {
		// scp-like syntax: [user@]host:path
		path = after
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[len(segments)-2] == "" || segments[len(segments)-1] == "" {
		return ""
	}
	return segments[len(segments)-2] + "/" + segments[len(segments)-1]
}

// run executes git with args in r.Dir. On failure it returns a CLIError
// with ExitGitError that includes git's stderr.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	fullArgs := args
	if r.Dir != "" {
		fullArgs = append([]string{"-C", r.Dir}, args...)
	}

	// #nosec G204 -- args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, "git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}
	return stdout.String(), nil
}

// isExitCode reports whether err wraps an *exec.ExitError with code.
func isExitCode(err error, code int) bool {
	cliErr, ok := err.(*model.CLIError)
	if !ok {
		return false
	}
	exitErr, ok := cliErr.Err.(*exec.ExitError)
	return ok && exitErr.ExitCode() == code
}
