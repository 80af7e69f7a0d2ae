package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".covship.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.RepoToken != "" || f.RepoSlug != "" || len(f.Labels) != 0 {
		t.Fatalf("expected zero config, got %+v", f)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, "repo_token: abc123\nrepo_slug: acme/widgets\nlabels:\n  - unit\n  - integration\n")
	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.RepoToken != "abc123" || f.RepoSlug != "acme/widgets" {
		t.Fatalf("fields: %+v", f)
	}
	if len(f.Labels) != 2 || f.Labels[0] != "unit" {
		t.Fatalf("labels: %v", f.Labels)
	}
}

func TestLoadRejectsWrongType(t *testing.T) {
	path := writeConfig(t, "labels: not-a-list\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for wrong label type")
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, "repo_tokne: oops\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestMergeEnvFileDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.env")
	if err := os.WriteFile(path, []byte("COVSHIP_REPO_TOKEN=from-file\nEXTRA=1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	env := map[string]string{"COVSHIP_REPO_TOKEN": "from-env"}
	if err := MergeEnvFile(path, env); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if env["COVSHIP_REPO_TOKEN"] != "from-env" {
		t.Fatalf("token: got %q, real environment must win", env["COVSHIP_REPO_TOKEN"])
	}
	if env["EXTRA"] != "1" {
		t.Fatalf("extra: got %q", env["EXTRA"])
	}
}

func TestMergeEnvFileMissing(t *testing.T) {
	if err := MergeEnvFile(filepath.Join(t.TempDir(), "absent.env"), map[string]string{}); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}
