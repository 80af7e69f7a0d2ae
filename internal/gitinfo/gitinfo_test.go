package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *git.Repository, name, content, message string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "Ada Byron", Email: "ada@example.com", When: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash.String()
}

func TestReadSnapshotsHead(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "a\n", "add a\n")
	if _, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:acme/widgets.git"}}); err != nil {
		t.Fatalf("remote: %v", err)
	}

	info, err := Read(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if info.Commit != hash {
		t.Fatalf("commit: got %q want %q", info.Commit, hash)
	}
	if info.Branch != "master" {
		t.Fatalf("branch: got %q", info.Branch)
	}
	if info.AuthorName != "Ada Byron" || info.AuthorEmail != "ada@example.com" {
		t.Fatalf("author: got %q <%q>", info.AuthorName, info.AuthorEmail)
	}
	if info.CommitterName != "Ada Byron" {
		t.Fatalf("committer: got %q", info.CommitterName)
	}
	if info.Message != "add a" {
		t.Fatalf("message: got %q", info.Message)
	}
	if info.CommitTimestamp != "2026-03-01T12:00:00Z" {
		t.Fatalf("timestamp: got %q", info.CommitTimestamp)
	}
	if len(info.Remotes) != 1 || info.Remotes[0].Name != "origin" || info.Remotes[0].URL != "git@github.com:acme/widgets.git" {
		t.Fatalf("remotes: got %+v", info.Remotes)
	}
}

func TestReadFromSubdirectory(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "a.txt", "a\n", "add a")
	sub := filepath.Join(dir, "pkg", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	info, err := Read(sub)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if info.Commit == "" {
		t.Fatalf("expected commit from parent repository")
	}
}

func TestReadLightweightTag(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "a\n", "add a")
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if _, err := repo.CreateTag("v1.2.3", head.Hash(), nil); err != nil {
		t.Fatalf("tag: %v", err)
	}

	info, err := Read(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if info.Tag != "v1.2.3" {
		t.Fatalf("tag: got %q", info.Tag)
	}
	if info.Commit != hash {
		t.Fatalf("commit: got %q", info.Commit)
	}
}

func TestReadOutsideRepository(t *testing.T) {
	if _, err := Read(t.TempDir()); err == nil {
		t.Fatalf("expected error outside a repository")
	}
}
