// Package xampp detects, configures, and supervises a bundled Apache/XAMPP
// installation for local development.
package xampp

import (
	"os"
	"runtime"

	"github.com/kakha13/localdomain/internal/rpcdomain"
)

// Detect probes the platform's default install locations for a XAMPP/LAMPP
// installation and returns the first one whose httpd binary exists.
func Detect() rpcdomain.DetectXamppResult {
	for _, path := range platformCandidates() {
		if VerifyPath(path) {
			p := path
			return rpcdomain.DetectXamppResult{Found: true, Path: &p}
		}
	}
	return rpcdomain.DetectXamppResult{Found: false}
}

// VerifyPath reports whether path is a valid XAMPP installation, i.e. its
// httpd binary exists.
func VerifyPath(path string) bool {
	_, err := os.Stat(HTTPDBinary(path))
	return err == nil
}

func platformCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/Applications/XAMPP/xamppfiles"}
	case "windows":
		return []string{`C:\xampp`, `D:\xampp`}
	default:
		return []string{"/opt/lampp"}
	}
}

// HTTPDBinary returns the path to the httpd executable under a XAMPP
// installation rooted at xamppPath.
func HTTPDBinary(xamppPath string) string {
	if runtime.GOOS == "windows" {
		return xamppPath + `\apache\bin\httpd.exe`
	}
	return xamppPath + "/bin/httpd"
}
