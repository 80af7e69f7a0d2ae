package gitinfo

import (
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Remote is one named git remote with its first fetch URL.
type Remote struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Info is a read-only snapshot of the repository state at HEAD. Fields are
// best-effort: anything that cannot be determined stays the empty string.
type Info struct {
	Root            string   `json:"root,omitempty"`
	Commit          string   `json:"commit,omitempty"`
	CommitTimestamp string   `json:"commitTimestamp,omitempty"`
	Branch          string   `json:"branch,omitempty"`
	Tag             string   `json:"tag,omitempty"`
	AuthorName      string   `json:"authorName,omitempty"`
	AuthorEmail     string   `json:"authorEmail,omitempty"`
	CommitterName   string   `json:"committerName,omitempty"`
	CommitterEmail  string   `json:"committerEmail,omitempty"`
	Message         string   `json:"message,omitempty"`
	Remotes         []Remote `json:"remotes,omitempty"`
}

func normalizeRFC3339(t time.Time) string { return t.UTC().Truncate(time.Second).Format(time.RFC3339) }

// Read opens the repository containing dir (searching parent directories for
// .git) and snapshots the metadata the uploader needs. Callers treat an error
// as a warning: build metadata is enrichment, not a precondition.
func Read(dir string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Info{}, err
	}

	var info Info
	if wt, err := repo.Worktree(); err == nil {
		info.Root = wt.Filesystem.Root()
	}
	info.Remotes = readRemotes(repo)

	head, err := repo.Head()
	if err != nil {
		// Unborn HEAD: remotes and root are still useful.
		return info, nil
	}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	info.Commit = head.Hash().String()
	info.Tag = tagAt(repo, head.Hash())

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return info, nil
	}
	info.CommitTimestamp = normalizeRFC3339(commit.Committer.When)
	info.AuthorName = commit.Author.Name
	info.AuthorEmail = commit.Author.Email
	info.CommitterName = commit.Committer.Name
	info.CommitterEmail = commit.Committer.Email
	info.Message = strings.TrimRight(commit.Message, "\n")
	return info, nil
}

// readRemotes returns the configured remotes sorted by name so the wire
// serialization is deterministic.
func readRemotes(repo *git.Repository) []Remote {
	remotes, err := repo.Remotes()
	if err != nil {
		return nil
	}
	out := make([]Remote, 0, len(remotes))
	for _, r := range remotes {
		cfg := r.Config()
		if len(cfg.URLs) == 0 {
			continue
		}
		out = append(out, Remote{Name: cfg.Name, URL: cfg.URLs[0]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// tagAt returns the name of a tag pointing at the given commit, resolving
// annotated tags through their target. With several matches the
// lexicographically smallest name wins, for determinism.
func tagAt(repo *git.Repository, hash plumbing.Hash) string {
	tags, err := repo.Tags()
	if err != nil {
		return ""
	}
	var names []string
	_ = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if obj, err := repo.TagObject(ref.Hash()); err == nil {
			target = obj.Target
		}
		if target == hash {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}
