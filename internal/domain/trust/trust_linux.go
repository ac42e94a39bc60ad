//go:build linux

package trust

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kakha13/localdomain/internal/platform"
)

const linuxCADest = "/usr/local/share/ca-certificates/localdomain-ca.crt"

// Install copies certPath into the system CA directory and regenerates the
// trust bundle via update-ca-certificates.
func Install(certPath string) error {
	if err := copyFile(certPath, linuxCADest); err != nil {
		return fmt.Errorf("copy ca cert to %s: %w", linuxCADest, err)
	}

	cmd := platform.SilentCommand("update-ca-certificates")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("update-ca-certificates: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// Remove deletes the installed CA cert copy and refreshes the trust bundle.
func Remove(certPath string) error {
	if _, err := os.Stat(linuxCADest); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(linuxCADest); err != nil {
		return fmt.Errorf("remove ca cert: %w", err)
	}

	cmd := platform.SilentCommand("update-ca-certificates", "--fresh")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("update-ca-certificates --fresh: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// Verify reports whether the CA cert copy exists in the system CA directory.
func Verify() bool {
	_, err := os.Stat(linuxCADest)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
