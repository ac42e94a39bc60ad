package hosts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kakha13/localdomain/internal/rpcdomain"
)

func TestBuildContent_EmptyEntries(t *testing.T) {
	current := "127.0.0.1\tlocalhost\n"
	got := buildContent(current, nil)
	if got != "127.0.0.1\tlocalhost\n" {
		t.Errorf("got %q", got)
	}
}

func TestBuildContent_WithEntries(t *testing.T) {
	current := "127.0.0.1\tlocalhost\n"
	entries := []rpcdomain.HostsEntry{{Domain: "project.test", IP: "127.0.0.1"}}

	got := buildContent(current, entries)

	if !strings.Contains(got, sentinelStart) {
		t.Error("expected sentinel start marker")
	}
	if !strings.Contains(got, "127.0.0.1\tproject.test") {
		t.Error("expected entry line")
	}
	if !strings.Contains(got, sentinelEnd) {
		t.Error("expected sentinel end marker")
	}
}

func TestBuildContent_ReplacesExistingBlock(t *testing.T) {
	current := "127.0.0.1\tlocalhost\n\n" +
		sentinelStart + "\n127.0.0.1\told.test\n" + sentinelEnd + "\n"
	entries := []rpcdomain.HostsEntry{{Domain: "new.test", IP: "127.0.0.1"}}

	got := buildContent(current, entries)

	if strings.Contains(got, "old.test") {
		t.Error("expected old entry to be removed")
	}
	if !strings.Contains(got, "new.test") {
		t.Error("expected new entry present")
	}
}

func TestSyncPath_WritesBackupAndManagedBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts")

	if err := os.WriteFile(path, []byte("127.0.0.1\tlocalhost\n"), 0o644); err != nil {
		t.Fatalf("seed hosts file: %v", err)
	}

	entries := []rpcdomain.HostsEntry{{Domain: "project.test", IP: "127.0.0.1"}}
	if err := SyncPath(path, entries); err != nil {
		t.Fatalf("SyncPath() returned unexpected error: %v", err)
	}

	updated, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read updated hosts file: %v", err)
	}
	if !strings.Contains(string(updated), "project.test") {
		t.Errorf("expected updated hosts file to contain project.test, got %q", updated)
	}

	backup, err := os.ReadFile(path + ".localdomain.bak")
	if err != nil {
		t.Fatalf("read backup file: %v", err)
	}
	if string(backup) != "127.0.0.1\tlocalhost\n" {
		t.Errorf("expected backup to preserve original content, got %q", backup)
	}
}

func TestSyncPath_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts")
	if err := os.WriteFile(path, []byte("127.0.0.1\tlocalhost\n"), 0o644); err != nil {
		t.Fatalf("seed hosts file: %v", err)
	}

	entries := []rpcdomain.HostsEntry{{Domain: "project.test", IP: "127.0.0.1"}}
	if err := SyncPath(path, entries); err != nil {
		t.Fatalf("first SyncPath() returned unexpected error: %v", err)
	}
	first, _ := os.ReadFile(path)

	if err := SyncPath(path, entries); err != nil {
		t.Fatalf("second SyncPath() returned unexpected error: %v", err)
	}
	second, _ := os.ReadFile(path)

	if string(first) != string(second) {
		t.Errorf("expected repeated sync with identical entries to be idempotent,\nfirst=%q\nsecond=%q", first, second)
	}
}
