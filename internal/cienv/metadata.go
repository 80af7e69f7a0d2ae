package cienv

import "strings"

// Remote is one named git remote as it appears on the wire.
type Remote struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Metadata is the canonical build record describing a build's CI context and
// git state, independent of which CI system produced it. Every field holds a
// defined value; absence is the empty string, never a null, because the wire
// format is a flat query string.
type Metadata struct {
	ServiceName     string   `json:"serviceName"`
	ServiceJobID    string   `json:"serviceJobId"`
	PullRequestID   string   `json:"pullRequestId"`
	RepoHost        string   `json:"repoHost"`
	Slug            string   `json:"slug"`
	BuildID         string   `json:"buildId"`
	BuildURL        string   `json:"buildUrl"`
	Labels          []string `json:"labels,omitempty"`
	GitRoot         string   `json:"gitRoot"`
	Remotes         []Remote `json:"gitRemotes,omitempty"`
	Commit          string   `json:"commit"`
	CommitTimestamp string   `json:"commitTimestamp"`
	Branch          string   `json:"branch"`
	Tag             string   `json:"tag"`
	AuthorName      string   `json:"authorName"`
	AuthorEmail     string   `json:"authorEmail"`
	CommitterName   string   `json:"committerName"`
	CommitterEmail  string   `json:"committerEmail"`
	Message         string   `json:"message"`
	RunAt           string   `json:"runAt"`
}

// RemotesWire serializes the remotes as name,url pairs separated by ';'.
// The separators are part of the wire contract: the server splits on them.
func (m Metadata) RemotesWire() string {
	parts := make([]string, 0, len(m.Remotes))
	for _, r := range m.Remotes {
		parts = append(parts, r.Name+","+r.URL)
	}
	return strings.Join(parts, ";")
}

// QueryPairs returns the record as ordered key/value pairs for the upload
// query string. The order is fixed so identical runs produce identical
// queries.
func (m Metadata) QueryPairs() [][2]string {
	return [][2]string{
		{"service", m.ServiceName},
		{"job", m.ServiceJobID},
		{"pr", m.PullRequestID},
		{"host", m.RepoHost},
		{"slug", m.Slug},
		{"build", m.BuildID},
		{"build_url", m.BuildURL},
		{"labels", strings.Join(m.Labels, ",")},
		{"root", m.GitRoot},
		{"remotes", m.RemotesWire()},
		{"commit", m.Commit},
		{"commit_ts", m.CommitTimestamp},
		{"branch", m.Branch},
		{"tag", m.Tag},
		{"author_name", m.AuthorName},
		{"author_email", m.AuthorEmail},
		{"committer_name", m.CommitterName},
		{"committer_email", m.CommitterEmail},
		{"message", m.Message},
		{"run_at", m.RunAt},
	}
}
