package cli

// Version and Date should be set at build time using ldflags, e.g.:
//
//	-ldflags "-X 'github.com/covship/covship/cli.Version=1.2.3' -X 'github.com/covship/covship/cli.Date=2026-08-01'"
var (
	Version string
	Date    string
)
