package xampp

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kakha13/localdomain/internal/platform"
)

// TestConfig runs "httpd -t" against a XAMPP installation's configuration
// and returns an error describing the syntax problem if it fails.
func TestConfig(xamppPath string) error {
	httpd := HTTPDBinary(xamppPath)
	out, err := platform.SilentCommand(httpd, "-t").CombinedOutput()
	if err != nil {
		return fmt.Errorf("apache config test failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// Start launches Apache via the platform-appropriate control script.
func Start(xamppPath string) error {
	return runControl(xamppPath, "start")
}

// Stop halts Apache via the platform-appropriate control script.
func Stop(xamppPath string) error {
	return runControl(xamppPath, "stop")
}

// Restart restarts Apache via the platform-appropriate control script.
func Restart(xamppPath string) error {
	return runControl(xamppPath, "restart")
}

func runControl(xamppPath, action string) error {
	name, args := controlCommand(xamppPath, action)
	out, err := platform.SilentCommand(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("apache %s failed: %s", action, strings.TrimSpace(string(out)))
	}
	return nil
}

func controlCommand(xamppPath, action string) (name string, args []string) {
	switch runtime.GOOS {
	case "darwin":
		return xamppPath + "/bin/apachectl", []string{action}
	case "windows":
		flag := map[string]string{"start": "start", "stop": "stop", "restart": "restart"}[action]
		return xamppPath + `\apache\bin\httpd.exe`, []string{"-k", flag}
	default:
		return xamppPath + "/lampp", []string{action + "apache"}
	}
}

// IsRunning reports whether an httpd process for xamppPath is currently
// running.
func IsRunning(xamppPath string) bool {
	if runtime.GOOS == "windows" {
		out, err := platform.SilentCommand("tasklist", "/FI", "IMAGENAME eq httpd.exe").Output()
		return err == nil && strings.Contains(string(out), "httpd.exe")
	}

	httpd := HTTPDBinary(xamppPath)
	return exec.Command("pgrep", "-f", httpd).Run() == nil
}
