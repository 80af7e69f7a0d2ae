package stage

import (
	"context"
	"os"
	"path/filepath"
)

const normalizeReportsStage = "normalize-reports"

// Sentinel is the fixed marker line terminating each normalized block, so
// the server can delimit concatenated files without a length-prefixed
// format.
const Sentinel = "# end_of_file #"

// normalizeReportsRunner reads each candidate and fills its Block: gcov
// files are condensed, everything else passes through byte-for-byte, and
// every block gets the sentinel terminator. A file that vanished or turned
// unreadable since discovery is a warning, not a failure. Zero usable
// blocks is terminal: there is nothing useful to upload.
func normalizeReportsRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	out := in
	root := "."
	if out.Meta != nil && out.Meta.Discovery != nil && out.Meta.Discovery.Root != "" {
		root = out.Meta.Discovery.Root
	}

	var kept []Record
	var envErrs []Error
	for _, rec := range in.Records {
		data, err := readRecord(root, rec, deps)
		if err != nil {
			envErrs = append(envErrs, Error{Stage: normalizeReportsStage, Locator: rec.Locator, Message: err.Error()})
			continue
		}
		if len(data) == 0 {
			continue
		}
		if rec.Kind == KindGcov {
			data = condenseGcov(data)
		}
		rec.Block = terminateBlock(data)
		kept = append(kept, rec)
	}

	out.Records = kept
	appendSanitizedErrors(&out, envErrs)
	if len(kept) == 0 {
		return Envelope{}, ErrNoReports
	}
	return out, nil
}

func readRecord(root string, rec Record, deps Deps) ([]byte, error) {
	if rec.Locator == StdinLocator {
		return deps.Stdin, nil
	}
	return os.ReadFile(filepath.Join(root, filepath.FromSlash(rec.Locator)))
}

// terminateBlock appends the sentinel line, inserting a newline first when
// the content does not end with one.
func terminateBlock(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return append(data, []byte(Sentinel+"\n")...)
}

func init() { Register(normalizeReportsStage, normalizeReportsRunner) }
