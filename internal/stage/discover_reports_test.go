package stage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func discover(t *testing.T, root string, include, exclude []string, deps Deps) Envelope {
	t.Helper()
	in := Envelope{Meta: &Meta{Discovery: &DiscoveryMeta{Root: root, Include: include, Exclude: exclude}}}
	out, err := Run(context.Background(), discoverReportsStage, in, deps)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	return out
}

func locators(env Envelope) []string {
	var out []string
	for _, r := range env.Records {
		out = append(out, r.Locator)
	}
	return out
}

func TestDiscoverSelectsAndOrders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lcov.info", "TN:\n")
	writeFile(t, root, "build/unit.gcov", "a.c:\n")
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "notes.md", "hi\n")

	out := discover(t, root, nil, nil, Deps{})
	got := locators(out)
	want := []string{"build/unit.gcov", "lcov.info"}
	if len(got) != len(want) {
		t.Fatalf("locators: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("locators: got %v, want %v", got, want)
		}
	}
	if out.Records[0].Kind != KindGcov || out.Records[1].Kind != KindPlain {
		t.Fatalf("kinds: %+v", out.Records)
	}
}

func TestDiscoverPrunesDependencyTrees(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/pkg/lcov.info", "TN:\n")
	writeFile(t, root, ".git/lcov.info", "TN:\n")
	writeFile(t, root, "vendor/dep/coverage.xml", "<x/>\n")
	writeFile(t, root, "src/lcov.info", "TN:\n")

	out := discover(t, root, nil, nil, Deps{})
	got := locators(out)
	if len(got) != 1 || got[0] != "src/lcov.info" {
		t.Fatalf("pruning failed: %v", got)
	}
}

func TestDiscoverExcludeGlobPrunes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "fixtures/lcov.info", "TN:\n")
	writeFile(t, root, "real/lcov.info", "TN:\n")

	out := discover(t, root, nil, []string{"fixtures/**"}, Deps{})
	got := locators(out)
	if len(got) != 1 || got[0] != "real/lcov.info" {
		t.Fatalf("exclude failed: %v", got)
	}
}

func TestDiscoverIncludeGlobIsAdditive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "custom.report", "data\n")

	out := discover(t, root, nil, nil, Deps{})
	if len(out.Records) != 0 {
		t.Fatalf("unexpected candidates: %v", locators(out))
	}

	out = discover(t, root, []string{"*.report"}, nil, Deps{})
	got := locators(out)
	if len(got) != 1 || got[0] != "custom.report" {
		t.Fatalf("include failed: %v", got)
	}
}

func TestDiscoverSkipsEmptyFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lcov.info", "")

	out := discover(t, root, nil, nil, Deps{})
	if len(out.Records) != 0 {
		t.Fatalf("empty files must be excluded: %v", locators(out))
	}
}

func TestDiscoverNegativeNamesWin(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "coverage.html", "<html/>\n")
	writeFile(t, root, "test_unit_coverage.txt", "x\n")
	writeFile(t, root, "coverage.json", "{}\n")

	out := discover(t, root, nil, nil, Deps{})
	got := locators(out)
	if len(got) != 1 || got[0] != "coverage.json" {
		t.Fatalf("negative list failed: %v", got)
	}
}

func TestDiscoverPipeBypassesWalk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lcov.info", "TN:\n")

	in := Envelope{Meta: &Meta{Discovery: &DiscoveryMeta{Root: root, Pipe: true}}}
	out, err := Run(context.Background(), discoverReportsStage, in, Deps{Stdin: []byte("piped\n")})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(out.Records) != 1 || out.Records[0].Locator != StdinLocator {
		t.Fatalf("pipe mode: %+v", out.Records)
	}
	if out.Records[0].Size != 6 {
		t.Fatalf("size: %d", out.Records[0].Size)
	}
}

func TestDiscoverPipeEmptyStdin(t *testing.T) {
	in := Envelope{Meta: &Meta{Discovery: &DiscoveryMeta{Root: t.TempDir(), Pipe: true}}}
	out, err := Run(context.Background(), discoverReportsStage, in, Deps{})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(out.Records) != 0 {
		t.Fatalf("records: %+v", out.Records)
	}
}
