// Package hosts manages the sentinel-bounded block of entries LocalDomain
// owns inside the OS hosts file.
package hosts

import (
	"fmt"
	"os"
	"strings"

	"github.com/kakha13/localdomain/internal/adapter/outbound/atomicfile"
	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

const (
	sentinelStart = "# LocalDomain Start"
	sentinelEnd   = "# LocalDomain End"
)

// Sync rewrites the managed block in the hosts file to contain exactly
// entries, leaving every other line untouched. The prior file contents are
// preserved at <hosts file>.localdomain.bak before the atomic replace.
func Sync(entries []rpcdomain.HostsEntry) error {
	return SyncPath(platform.HostsFile, entries)
}

// SyncPath is Sync parameterized over the hosts file path, for tests.
func SyncPath(path string, entries []rpcdomain.HostsEntry) error {
	current, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hosts file: %w", err)
	}

	content := buildContent(string(current), entries)

	if err := atomicfile.WriteWithBackup(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write hosts file: %w", err)
	}
	return nil
}

// buildContent strips any existing managed block from current and appends a
// fresh one built from entries, unless entries is empty.
func buildContent(current string, entries []rpcdomain.HostsEntry) string {
	var lines []string
	inBlock := false

	for _, line := range strings.Split(current, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == sentinelStart {
			inBlock = true
			continue
		}
		if trimmed == sentinelEnd {
			inBlock = false
			continue
		}
		if !inBlock {
			lines = append(lines, line)
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteByte('\n')

	if len(entries) > 0 {
		b.WriteByte('\n')
		b.WriteString(sentinelStart)
		b.WriteByte('\n')
		for _, e := range entries {
			fmt.Fprintf(&b, "%s\t%s\n", e.IP, e.Domain)
		}
		b.WriteString(sentinelEnd)
		b.WriteByte('\n')
	}

	return b.String()
}
