// Package atomicfile provides the write-temp-then-rename discipline shared
// by every component that mutates an OS configuration file in place (the
// hosts file, the generated Caddyfile, the Apache vhosts config).
package atomicfile

import (
	"fmt"
	"os"
)

// backupSuffix and tmpSuffix match the suffixes the original daemon uses for
// its own backup/staging files alongside a managed config file.
const (
	backupSuffix = ".localdomain.bak"
	tmpSuffix    = ".localdomain.tmp"
)

// WriteWithBackup writes data to path using the atomic rename discipline:
// the current file contents (if any) are copied to path+backupSuffix, then
// data is written to path+tmpSuffix, fsynced, and renamed over path. On any
// error the temp file is removed and path is left untouched.
func WriteWithBackup(path string, data []byte, perm os.FileMode) error {
	if currentData, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+backupSuffix, currentData, perm); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read current file: %w", err)
	}

	return Write(path, data, perm)
}

// Write writes data to path via a temp-file-then-rename sequence without
// taking a backup. Used for generated files that have no meaningful prior
// state to preserve (e.g. the Caddyfile).
func Write(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + tmpSuffix

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// RestoreBackup copies path+backupSuffix back over path. Used to roll back
// a config change after a post-write validation step (e.g. "httpd -t")
// fails.
func RestoreBackup(path string) error {
	data, err := os.ReadFile(path + backupSuffix)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	return Write(path, data, 0o644)
}
