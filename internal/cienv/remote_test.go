package cienv

import "testing"

func TestHostAndSlug(t *testing.T) {
	cases := []struct {
		url      string
		wantHost string
		wantSlug string
	}{
		{"git@host.com:owner/repo.git", "host", "owner/repo"},
		{"https://host.com/owner/repo.git", "host", "owner/repo"},
		{"https://host.com/owner/repo", "host", "owner/repo"},
		{"git@gitlab.example.org:group/project.git", "gitlab", "group/project"},
		{"https://bitbucket.org/team/repo.git", "bitbucket.org", "team/repo"},
		{"ssh://nope", "nope", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		host, slug := HostAndSlug(c.url)
		if host != c.wantHost || slug != c.wantSlug {
			t.Fatalf("%q: got (%q, %q), want (%q, %q)", c.url, host, slug, c.wantHost, c.wantSlug)
		}
	}
}

func TestHostAndSlugBareSlashNormalizes(t *testing.T) {
	// An HTTPS URL with empty owner and repo segments derives the slug "/",
	// which must normalize to empty.
	_, slug := HostAndSlug("https://host.com//")
	if slug != "" {
		t.Fatalf("slug: got %q, want empty", slug)
	}
}
