package env

import (
	"os"
	"sort"
)

// Names of the GitHub Actions default environment variables read by
// ci-envs.
const (
	GitHubRepository = "GITHUB_REPOSITORY"
	GitHubRef        = "GITHUB_REF"
	GitHubHeadRef    = "GITHUB_HEAD_REF"
	GitHubBaseRef    = "GITHUB_BASE_REF"
	GitHubSHA        = "GITHUB_SHA"
	GitHubActor      = "GITHUB_ACTOR"
	GitHubEventName  = "GITHUB_EVENT_NAME"
	GitHubEventPath  = "GITHUB_EVENT_PATH"
	GitHubRunID      = "GITHUB_RUN_ID"
	GitHubRunNumber  = "GITHUB_RUN_NUMBER"
	GitHubWorkflow   = "GITHUB_WORKFLOW"
	GitHubAction     = "GITHUB_ACTION"
	GitHubEnv        = "GITHUB_ENV"
	GitHubActions    = "GITHUB_ACTIONS"
)

// Reader defines an interface for environment variable access.
// An unset variable and a variable set to "" are indistinguishable.
type Reader interface {
	Getenv(key string) string
}

// OSReader implements Reader using the process environment.
type OSReader struct{}

// Getenv returns the value of the environment variable named by the key.
func (OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// MapReader implements Reader over a fixed map. It is used by tests and
// by the git fallback to overlay values on top of another Reader.
type MapReader map[string]string

// Getenv returns m[key], or "" when the key is missing.
func (m MapReader) Getenv(key string) string {
	return m[key]
}

// Keys returns the map keys in sorted order.
func (m MapReader) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Overlay returns a Reader that prefers non-empty values from top and
// falls back to base for everything else.
func Overlay(top, base Reader) Reader {
	return overlay{top: top, base: base}
}

type overlay struct {
	top  Reader
	base Reader
}

func (o overlay) Getenv(key string) string {
	if v := o.top.Getenv(key); v != "" {
		return v
	}
	return o.base.Getenv(key)
}

// InGitHubActions reports whether the process runs inside a GitHub
// Actions job.
func InGitHubActions(r Reader) bool {
	return r.Getenv(GitHubActions) == "true"
}
