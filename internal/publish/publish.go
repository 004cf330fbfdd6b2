// Package publish derives the CI_* variable set from runner inputs and
// hands it to an export.Exporter.
//
// Derivation (Derive) is a pure function of Inputs; all host access goes
// through env.Reader on the way in and export.Exporter on the way out.
package publish

import (
	"fmt"

	"github.com/shinji-kodama/ci-envs/internal/env"
	"github.com/shinji-kodama/ci-envs/internal/export"
	"github.com/shinji-kodama/ci-envs/internal/model"
	"github.com/shinji-kodama/ci-envs/internal/slug"
)

// Inputs are the raw runner values the variable set is derived from.
// Empty fields are treated as absent.
type Inputs struct {
	Repository string
	Ref        string
	HeadRef    string
	BaseRef    string
	SHA        string
	Actor      string
	EventName  string
	RunID      string
	RunNumber  string
	Workflow   string
	Action     string

	// PullRequest is set when the triggering event carries a pull request.
	PullRequest *env.PullRequest
}

// ReadInputs collects Inputs from r and the already loaded event payload.
// event may be nil.
func ReadInputs(r env.Reader, event *env.Event) Inputs {
	in := Inputs{
		Repository: r.Getenv(env.GitHubRepository),
		Ref:        r.Getenv(env.GitHubRef),
		HeadRef:    r.Getenv(env.GitHubHeadRef),
		BaseRef:    r.Getenv(env.GitHubBaseRef),
		SHA:        r.Getenv(env.GitHubSHA),
		Actor:      r.Getenv(env.GitHubActor),
		EventName:  r.Getenv(env.GitHubEventName),
		RunID:      r.Getenv(env.GitHubRunID),
		RunNumber:  r.Getenv(env.GitHubRunNumber),
		Workflow:   r.Getenv(env.GitHubWorkflow),
		Action:     r.Getenv(env.GitHubAction),
	}
	if event != nil {
		in.PullRequest = event.PullRequest
	}
	return in
}

// Derive computes the ordered variable list for in. Names are prefix +
// model.Suffix*.
//
// Conditional groups are only emitted when their source value is
// non-empty. The run metadata group at the end (actor, event name, run
// id/number, workflow, action) is always emitted, with "" for unset
// inputs.
func Derive(prefix string, in Inputs) []model.Variable {
	b := builder{prefix: prefix}

	if in.Repository != "" {
		b.add(model.SuffixRepository, in.Repository)
		b.add(model.SuffixRepositorySlug, slug.Slugify(in.Repository))
	}

	if owner := slug.RepositoryOwner(in.Repository); owner != "" {
		b.add(model.SuffixRepositoryOwner, owner)
		b.add(model.SuffixRepositoryOwnerSlug, slug.Slugify(owner))
	}

	if name := slug.RepositoryName(in.Repository); name != "" {
		b.add(model.SuffixRepositoryName, name)
		b.add(model.SuffixRepositoryNameSlug, slug.Slugify(name))
	}

	if in.Ref != "" {
		b.add(model.SuffixRef, in.Ref)
		b.add(model.SuffixRefSlug, slug.Slugify(in.Ref))
	}

	refName := slug.RefName(in.Ref)
	if refName != "" {
		b.add(model.SuffixRefName, refName)
		b.add(model.SuffixRefNameSlug, slug.Slugify(refName))
	}

	// Pull request runs check out a merge ref, so the head ref is the
	// branch name people expect to see.
	headRef := slug.HeadRefShort(in.HeadRef)
	branchName := headRef
	if branchName == "" {
		branchName = refName
	}
	if branchName != "" {
		b.add(model.SuffixActionRefName, branchName)
		b.add(model.SuffixActionRefNameSlug, slug.Slugify(branchName))
	}

	if headRef != "" {
		b.add(model.SuffixHeadRef, headRef)
		b.add(model.SuffixHeadRefSlug, slug.Slugify(headRef))
		b.add(model.SuffixCleanHeadRefSlug, slug.SlugifyUnderscore(headRef))
	}

	if in.BaseRef != "" {
		b.add(model.SuffixBaseRef, in.BaseRef)
		b.add(model.SuffixBaseRefSlug, slug.Slugify(in.BaseRef))
	}

	if in.SHA != "" {
		b.add(model.SuffixSHA, in.SHA)
		b.add(model.SuffixSHAShort, slug.ShaShort(in.SHA))
	}

	if in.PullRequest != nil {
		b.add(model.SuffixPullRequestTitle, in.PullRequest.TitleOrEmpty())
		b.add(model.SuffixPullRequestDescription, in.PullRequest.BodyOrEmpty())
	}

	b.add(model.SuffixActor, in.Actor)
	b.add(model.SuffixEventName, in.EventName)
	b.add(model.SuffixRunID, in.RunID)
	b.add(model.SuffixRunNumber, in.RunNumber)
	b.add(model.SuffixWorkflow, in.Workflow)
	b.add(model.SuffixAction, in.Action)

	return b.vars
}

type builder struct {
	prefix string
	vars   []model.Variable
}

func (b *builder) add(suffix, value string) {
	b.vars = append(b.vars, model.Variable{Name: b.prefix + suffix, Value: value})
}

// Publish exports vars in order. The first failing export aborts the
// run: later variables are not exported, and the returned CLIError
// (ExitExportFailed) names the variable that failed.
func Publish(vars []model.Variable, e export.Exporter) error {
	for _, v := range vars {
		if err := e.Export(v.Name, v.Value); err != nil {
			return model.WrapCLIError(model.ExitExportFailed,
				fmt.Sprintf("failed to export %s", v.Name), err)
		}
	}
	return nil
}

// Run reads inputs, derives the variable set and publishes it. The
// derived list is returned even when publishing fails, so callers can
// report what was attempted.
func Run(r env.Reader, event *env.Event, prefix string, e export.Exporter) ([]model.Variable, error) {
	vars := Derive(prefix, ReadInputs(r, event))
	return vars, Publish(vars, e)
}
