//go:build windows

package trust

import (
	"fmt"
	"strings"

	"github.com/kakha13/localdomain/internal/platform"
)

const caCommonName = "LocalDomain Root CA"

// Install adds certPath to the Windows Root certificate store via certutil.
func Install(certPath string) error {
	cmd := platform.SilentCommand("certutil", "-addstore", "Root", certPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("certutil -addstore: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// Remove deletes the CA's entry from the Windows Root certificate store by
// common name. Absence of the entry ("not found" in stderr) is not an error.
func Remove(certPath string) error {
	cmd := platform.SilentCommand("certutil", "-delstore", "Root", caCommonName)
	out, err := cmd.CombinedOutput()
	if err != nil && !strings.Contains(string(out), "not found") {
		return fmt.Errorf("certutil -delstore: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// Verify reports whether the CA appears in the Windows Root certificate
// store by common name.
func Verify() bool {
	cmd := platform.SilentCommand("certutil", "-verifystore", "Root", caCommonName)
	out, err := cmd.Output()
	return err == nil && strings.Contains(string(out), caCommonName)
}
