package cienv

import (
	"testing"
	"time"

	"github.com/covship/covship/internal/gitinfo"
)

var resolveNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func gitFixture() gitinfo.Info {
	return gitinfo.Info{
		Root:            "/work/repo",
		Commit:          "deadbeef",
		CommitTimestamp: "2026-01-01T00:00:00Z",
		Branch:          "local-branch",
		AuthorName:      "Ada",
		AuthorEmail:     "ada@example.com",
		CommitterName:   "Ada",
		CommitterEmail:  "ada@example.com",
		Message:         "fix the flux",
		Remotes: []gitinfo.Remote{
			{Name: "origin", URL: "git@github.com:acme/widgets.git"},
			{Name: "upstream", URL: "https://github.com/upstream/widgets.git"},
		},
	}
}

func strptr(s string) *string { return &s }

func TestResolveGitDefaults(t *testing.T) {
	m := Resolve(Env{}, gitFixture(), resolveNow, Defaults{}, Overrides{})
	if m.RepoHost != "github" || m.Slug != "acme/widgets" {
		t.Fatalf("host/slug from origin: got %q/%q", m.RepoHost, m.Slug)
	}
	if m.Branch != "local-branch" || m.Commit != "deadbeef" {
		t.Fatalf("git fields: %+v", m)
	}
	if m.RunAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("runAt: got %q", m.RunAt)
	}
	if got := m.RemotesWire(); got != "origin,git@github.com:acme/widgets.git;upstream,https://github.com/upstream/widgets.git" {
		t.Fatalf("remotes wire: got %q", got)
	}
}

func TestResolveDetectionWinsOverGit(t *testing.T) {
	env := Env{"TRAVIS": "true", "TRAVIS_BRANCH": "ci-branch", "TRAVIS_REPO_SLUG": "other/slug"}
	m := Resolve(env, gitFixture(), resolveNow, Defaults{}, Overrides{})
	if m.Branch != "ci-branch" {
		t.Fatalf("branch: got %q, want detection to win over git", m.Branch)
	}
	if m.Slug != "other/slug" {
		t.Fatalf("slug: got %q", m.Slug)
	}
}

func TestResolveConfigFillsOnlyEmpty(t *testing.T) {
	cfg := Defaults{Slug: "cfg/slug", Labels: []string{"unit"}}

	m := Resolve(Env{}, gitinfo.Info{}, resolveNow, cfg, Overrides{})
	if m.Slug != "cfg/slug" {
		t.Fatalf("slug: got %q, want config to fill empty field", m.Slug)
	}
	if len(m.Labels) != 1 || m.Labels[0] != "unit" {
		t.Fatalf("labels: got %v", m.Labels)
	}

	env := Env{"TRAVIS": "true", "TRAVIS_REPO_SLUG": "detected/slug"}
	m = Resolve(env, gitinfo.Info{}, resolveNow, cfg, Overrides{})
	if m.Slug != "detected/slug" {
		t.Fatalf("slug: got %q, want detection to win over config", m.Slug)
	}
}

func TestResolveOverridesWinUnconditionally(t *testing.T) {
	env := Env{"TRAVIS": "true", "TRAVIS_REPO_SLUG": "detected/slug", "TRAVIS_BRANCH": "detected"}
	over := Overrides{
		Slug:   strptr("flag/slug"),
		Branch: strptr(""),
		Labels: []string{"flagged"},
	}
	m := Resolve(env, gitFixture(), resolveNow, Defaults{}, over)
	if m.Slug != "flag/slug" {
		t.Fatalf("slug: got %q, want flag to win", m.Slug)
	}
	if m.Branch != "" {
		t.Fatalf("branch: got %q, want explicit empty override to stick", m.Branch)
	}
	if len(m.Labels) != 1 || m.Labels[0] != "flagged" {
		t.Fatalf("labels: got %v", m.Labels)
	}
}

func TestResolveNeverFails(t *testing.T) {
	m := Resolve(nil, gitinfo.Info{}, resolveNow, Defaults{}, Overrides{})
	for _, p := range m.QueryPairs() {
		_ = p // every field must be addressable as a defined string
	}
	if m.Commit != "" || m.Slug != "" {
		t.Fatalf("expected empty strings, got %+v", m)
	}
}
