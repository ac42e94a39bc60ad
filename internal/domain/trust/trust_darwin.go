//go:build darwin

package trust

import (
	"fmt"
	"strings"

	"github.com/kakha13/localdomain/internal/platform"
)

const caCommonName = "LocalDomain Root CA"

// Install adds certPath to the System Keychain as a trusted root. It
// returns ErrNonInteractive when the security command fails, which is the
// expected outcome when the daemon runs non-interactively (no user present
// to approve the Keychain trust prompt).
func Install(certPath string) error {
	cmd := platform.SilentCommand("security",
		"add-trusted-cert", "-d", "-r", "trustRoot", "-p", "ssl",
		"-k", "/Library/Keychains/System.keychain", certPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: security add-trusted-cert: %s", ErrNonInteractive, strings.TrimSpace(string(out)))
	}
	return nil
}

// Remove deletes certPath's trust entry from the System Keychain. Absence
// of the entry ("not found" in stderr) is not treated as an error.
func Remove(certPath string) error {
	cmd := platform.SilentCommand("security", "remove-trusted-cert", "-d", certPath)
	out, err := cmd.CombinedOutput()
	if err != nil && !strings.Contains(string(out), "not found") {
		return fmt.Errorf("remove ca trust: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// Verify reports whether the LocalDomain root CA appears in either the
// admin-level or user-level Keychain trust settings.
func Verify() bool {
	for _, args := range [][]string{
		{"dump-trust-settings", "-d"},
		{"dump-trust-settings"},
	} {
		cmd := platform.SilentCommand("security", args...)
		out, err := cmd.Output()
		if err == nil && strings.Contains(string(out), caCommonName) {
			return true
		}
	}
	return false
}
