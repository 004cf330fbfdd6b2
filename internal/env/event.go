package env

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/ci-envs/internal/model"
)

// Event is the subset of the webhook event payload ci-envs cares about.
// The runner writes the full payload to the file named by
// GITHUB_EVENT_PATH; every other field is ignored during parsing.
type Event struct {
	// PullRequest is non-nil only for pull_request and
	// pull_request_target events.
	PullRequest *PullRequest `json:"pull_request"`
}

// PullRequest holds the pull request fields exported as CI_PR_*.
// Title and Body are pointers because the payload sends null for an
// empty description.
type PullRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// TitleOrEmpty returns the title, or "" when it was null.
func (p *PullRequest) TitleOrEmpty() string {
	if p == nil || p.Title == nil {
		return ""
	}
	return *p.Title
}

// BodyOrEmpty returns the body, or "" when it was null.
func (p *PullRequest) BodyOrEmpty() string {
	if p == nil || p.Body == nil {
		return ""
	}
	return *p.Body
}

// ErrEventFileMissing is returned by LoadEvent when a path is given but
// no file exists there. Callers treat it as "no event", the same as an
// empty path.
var ErrEventFileMissing = errors.New("event payload file does not exist")

// LoadEvent reads and parses the event payload at path.
//
// An empty path returns an empty Event. A path that does not exist
// returns an empty Event together with ErrEventFileMissing, so the caller
// can log it and carry on. Unreadable or malformed payloads return a
// CLIError with ExitEventPayloadError.
//
// Comments and trailing commas are stripped with github.com/tidwall/jsonc
// before decoding; runner-written payloads never contain them, but
// hand-written fixtures used with `ci-envs print` often do.
func LoadEvent(path string) (*Event, error) {
	if path == "" {
		return &Event{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Event{}, fmt.Errorf("%w: %s", ErrEventFileMissing, path)
		}
		return nil, model.WrapCLIError(model.ExitEventPayloadError,
			fmt.Sprintf("failed to read event payload %s", path), err)
	}

	var event Event
	if err := json.Unmarshal(jsonc.ToJSON(data), &event); err != nil {
		return nil, model.WrapCLIError(model.ExitEventPayloadError,
			fmt.Sprintf("failed to parse event payload %s", path), err)
	}
	return &event, nil
}
