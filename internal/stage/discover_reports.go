package stage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
)

const discoverReportsStage = "discover-reports"

// discoverReportsRunner walks the discovery root and produces one record per
// report candidate, in stable path order. When piped bytes are present
// discovery is bypassed entirely: stdin is the sole input.
func discoverReportsRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	out := in
	if out.Meta == nil || out.Meta.Discovery == nil {
		out.Meta = ensureMeta(out.Meta)
		out.Meta.Discovery = &DiscoveryMeta{Root: "."}
	}
	d := out.Meta.Discovery

	if d.Pipe {
		out.Records = nil
		if len(deps.Stdin) > 0 {
			out.Records = []Record{{Locator: StdinLocator, Size: int64(len(deps.Stdin)), Kind: KindPlain}}
		}
		return out, nil
	}

	root := d.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Envelope{}, err
	}

	records, envErrs := walkReports(absRoot, d.Include, d.Exclude)
	out.Records = records
	appendSanitizedErrors(&out, envErrs)
	return out, nil
}

func ensureMeta(m *Meta) *Meta {
	if m == nil {
		return &Meta{}
	}
	return m
}

// walkReports descends absRoot depth-first with sorted directory entries, so
// candidate order is deterministic and equals upload order. Excluded
// directories are pruned, never post-filtered: nothing below them is ever
// read. Unreadable entries become warnings, not failures.
func walkReports(absRoot string, includeGlobs, excludeGlobs []string) ([]Record, []Error) {
	var records []Record
	var envErrs []Error

	var walkDir func(string)
	walkDir = func(dirPath string) {
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			envErrs = append(envErrs, Error{Stage: discoverReportsStage, Locator: displayPath(absRoot, dirPath), Message: err.Error()})
			return
		}
		for _, ent := range entries {
			name := ent.Name()
			childPath := filepath.Join(dirPath, name)
			rel := displayPath(absRoot, childPath)

			if ent.IsDir() {
				if prunedDirs[name] || excluded(excludeGlobs, rel) {
					continue
				}
				walkDir(childPath)
				continue
			}
			if ent.Type()&os.ModeSymlink != 0 {
				continue
			}
			if excluded(excludeGlobs, rel) {
				continue
			}
			// Explicit include globs are additive and bypass the negative
			// name list: the caller asked for those files by name.
			if !reportNameMatch(name) && !matchAnyGlob(includeGlobs, rel) {
				continue
			}
			info, err := ent.Info()
			if err != nil {
				envErrs = append(envErrs, Error{Stage: discoverReportsStage, Locator: rel, Message: err.Error()})
				continue
			}
			if info.Size() == 0 {
				continue
			}
			records = append(records, Record{Locator: rel, Size: info.Size(), Kind: classifyKind(name)})
		}
	}
	walkDir(absRoot)

	sort.Slice(records, func(i, j int) bool { return records[i].Locator < records[j].Locator })
	return records, envErrs
}

func init() { Register(discoverReportsStage, discoverReportsRunner) }
