package cienv

import "strings"

// HostAndSlug derives the repository host and owner/name slug from a git
// remote URL by format-sniffing. A URL containing "//" is treated as
// HTTPS-style; anything else as SSH-style (git@host.com:owner/repo.git).
func HostAndSlug(remoteURL string) (host, slug string) {
	if remoteURL == "" {
		return "", ""
	}
	if strings.Contains(remoteURL, "//") {
		parts := strings.Split(remoteURL, "/")
		if len(parts) > 2 {
			host = strings.TrimSuffix(parts[2], ".com")
		}
		if len(parts) > 4 {
			slug = parts[3] + "/" + parts[4]
		} else if len(parts) > 3 {
			slug = parts[3]
		}
	} else {
		rest := remoteURL
		if at := strings.Index(rest, "@"); at >= 0 {
			rest = rest[at+1:]
		}
		if dot := strings.Index(rest, "."); dot >= 0 {
			host = rest[:dot]
		} else if colon := strings.Index(rest, ":"); colon >= 0 {
			host = rest[:colon]
		} else {
			host = rest
		}
		if colon := strings.Index(remoteURL, ":"); colon >= 0 {
			slug = remoteURL[colon+1:]
		}
	}
	slug = strings.TrimSuffix(slug, ".git")
	if slug == "/" {
		slug = ""
	}
	return host, slug
}
