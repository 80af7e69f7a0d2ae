package upload

import (
	"strings"

	"github.com/covship/covship/internal/cienv"
)

const upperhex = "0123456789ABCDEF"

// isUnreserved reports whether c passes through the query string unencoded:
// the RFC 3986 unreserved set of alphanumerics plus -_.~.
func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	}
	return false
}

// Escape percent-encodes s byte-wise. url.QueryEscape is close but encodes
// space as '+', which the ingestion endpoint does not decode; this keeps the
// round-trip exact for all UTF-8 input.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}

// Query assembles the upload query string. The token and package identifier
// always come first; the metadata field order is fixed by QueryPairs. Any
// whitespace incidental to assembly is stripped before transmission; encoded
// values never contain raw spaces, so whatever is left is accidental.
func Query(token, pkg string, md cienv.Metadata) string {
	pairs := append([][2]string{{"token", token}, {"package", pkg}}, md.QueryPairs()...)
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, Escape(p[0])+"="+Escape(p[1]))
	}
	return strings.Join(strings.Fields(strings.Join(parts, "&")), "")
}
