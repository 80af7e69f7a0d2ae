package cienv

import (
	"time"

	"github.com/covship/covship/internal/gitinfo"
)

// Defaults carries config-file values. They only fill fields that are still
// empty after detection; they never overwrite.
type Defaults struct {
	Slug   string
	Labels []string
}

// Overrides carries explicit flag-level overrides. A nil field means the
// flag was not supplied; a non-nil field overwrites the resolved value
// unconditionally, including with an empty string.
type Overrides struct {
	ServiceName   *string
	ServiceJobID  *string
	PullRequestID *string
	Slug          *string
	BuildID       *string
	BuildURL      *string
	Branch        *string
	Labels        []string
}

// Resolve folds, in order: git defaults, every matching detector, config
// defaults for still-empty fields, then explicit overrides. The fold order
// is the design invariant: detection wins over git, later detectors win over
// earlier ones, overrides win over everything. Resolution never fails; any
// unknown value stays the empty string.
func Resolve(env Env, git gitinfo.Info, now time.Time, cfg Defaults, over Overrides) Metadata {
	var m Metadata
	applyGit(&m, git)

	for _, d := range detectors {
		if d.Match(env) {
			d.Apply(env, &m)
		}
	}

	if m.Slug == "" {
		m.Slug = cfg.Slug
	}
	if len(m.Labels) == 0 {
		m.Labels = append([]string(nil), cfg.Labels...)
	}

	applyOverrides(&m, over)
	m.RunAt = now.UTC().Truncate(time.Second).Format(time.RFC3339)
	return m
}

func applyGit(m *Metadata, git gitinfo.Info) {
	m.GitRoot = git.Root
	m.Commit = git.Commit
	m.CommitTimestamp = git.CommitTimestamp
	m.Branch = git.Branch
	m.Tag = git.Tag
	m.AuthorName = git.AuthorName
	m.AuthorEmail = git.AuthorEmail
	m.CommitterName = git.CommitterName
	m.CommitterEmail = git.CommitterEmail
	m.Message = git.Message
	for _, r := range git.Remotes {
		m.Remotes = append(m.Remotes, Remote{Name: r.Name, URL: r.URL})
	}
	m.RepoHost, m.Slug = HostAndSlug(preferredRemote(git.Remotes))
}

// preferredRemote picks origin when present, otherwise the first remote.
func preferredRemote(remotes []gitinfo.Remote) string {
	for _, r := range remotes {
		if r.Name == "origin" {
			return r.URL
		}
	}
	if len(remotes) > 0 {
		return remotes[0].URL
	}
	return ""
}

func applyOverrides(m *Metadata, over Overrides) {
	if over.ServiceName != nil {
		m.ServiceName = *over.ServiceName
	}
	if over.ServiceJobID != nil {
		m.ServiceJobID = *over.ServiceJobID
	}
	if over.PullRequestID != nil {
		m.PullRequestID = *over.PullRequestID
	}
	if over.Slug != nil {
		m.Slug = *over.Slug
	}
	if over.BuildID != nil {
		m.BuildID = *over.BuildID
	}
	if over.BuildURL != nil {
		m.BuildURL = *over.BuildURL
	}
	if over.Branch != nil {
		m.Branch = *over.Branch
	}
	if over.Labels != nil {
		m.Labels = append([]string(nil), over.Labels...)
	}
}
