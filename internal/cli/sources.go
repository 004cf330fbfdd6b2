package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shinji-kodama/ci-envs/internal/config"
	"github.com/shinji-kodama/ci-envs/internal/env"
	"github.com/shinji-kodama/ci-envs/internal/gitinfo"
)

// hostReader is the environment the commands read from. Tests replace it
// with an env.MapReader.
var hostReader env.Reader = env.OSReader{}

// resolveSources builds the environment reader and loads the event
// payload according to cfg.
//
// With the git fallback enabled, values the runner did not provide are
// filled from the local working copy; values the runner did provide
// always win.
func resolveSources(ctx context.Context, cfg *config.Config, warn io.Writer) (env.Reader, *env.Event, error) {
	reader := hostReader

	if cfg.GitFallback {
		values, err := gitinfo.NewRepo(cfg.GitDir).Fallback(ctx)
		if err != nil {
			return nil, nil, err
		}
		for _, key := range values.Keys() {
			VerboseLog("git fallback: %s=%s", key, values[key])
		}
		reader = env.Overlay(reader, values)
	}

	eventPath := cfg.EventPath
	if eventPath == "" {
		eventPath = reader.Getenv(env.GitHubEventPath)
	}

	event, err := env.LoadEvent(eventPath)
	if err != nil {
		if !errors.Is(err, env.ErrEventFileMissing) {
			return nil, nil, err
		}
		// The runner always writes the payload; a missing file means a
		// local or non-GitHub run, which simply has no pull request data.
		fmt.Fprintf(warn, "Warning: %v\n", err)
	}
	if event.PullRequest != nil {
		VerboseLog("Event payload %s carries a pull request", eventPath)
	}

	return reader, event, nil
}
