package tunnel

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

const cloudflaredReleaseBase = "https://github.com/cloudflare/cloudflared/releases/latest/download"

// EnsureCloudflared reports whether the cloudflared binary is already
// installed, downloading the latest release for the current platform and
// architecture if not.
func EnsureCloudflared() (rpcdomain.EnsureCloudflaredResult, error) {
	if _, err := os.Stat(platform.CloudflaredBinary); err == nil {
		version := cloudflaredVersion()
		return rpcdomain.EnsureCloudflaredResult{
			Installed: true,
			Path:      platform.CloudflaredBinary,
			Version:   version,
		}, nil
	}

	if err := os.MkdirAll(platform.TunnelDir, 0o755); err != nil {
		return rpcdomain.EnsureCloudflaredResult{}, fmt.Errorf("create tunnel dir: %w", err)
	}
	if err := downloadCloudflared(); err != nil {
		return rpcdomain.EnsureCloudflaredResult{}, err
	}

	version := cloudflaredVersion()
	return rpcdomain.EnsureCloudflaredResult{
		Installed: true,
		Path:      platform.CloudflaredBinary,
		Version:   version,
	}, nil
}

func cloudflaredVersion() *string {
	out, err := exec.Command(platform.CloudflaredBinary, "--version").Output()
	if err != nil {
		return nil
	}
	// "cloudflared version 2024.x.x (built ...)"
	fields := strings.Fields(string(out))
	if len(fields) < 3 {
		return nil
	}
	v := fields[2]
	return &v
}

func cloudflaredReleaseURL() string {
	switch runtime.GOOS {
	case "darwin":
		if runtime.GOARCH == "arm64" {
			return cloudflaredReleaseBase + "/cloudflared-darwin-arm64.tgz"
		}
		return cloudflaredReleaseBase + "/cloudflared-darwin-amd64.tgz"
	case "windows":
		if runtime.GOARCH == "arm64" {
			return cloudflaredReleaseBase + "/cloudflared-windows-arm64.exe"
		}
		return cloudflaredReleaseBase + "/cloudflared-windows-amd64.exe"
	default:
		if runtime.GOARCH == "arm64" {
			return cloudflaredReleaseBase + "/cloudflared-linux-arm64"
		}
		return cloudflaredReleaseBase + "/cloudflared-linux-amd64"
	}
}

func downloadCloudflared() error {
	url := cloudflaredReleaseURL()

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download cloudflared: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download cloudflared: unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(platform.CloudflaredBinary), 0o755); err != nil {
		return fmt.Errorf("create cloudflared parent dir: %w", err)
	}

	if runtime.GOOS == "darwin" {
		return extractDarwinTarball(resp.Body)
	}
	return writeExecutable(platform.CloudflaredBinary, resp.Body)
}

// extractDarwinTarball extracts the "cloudflared" binary out of the gzipped
// tarball macOS releases ship as, and writes it to platform.CloudflaredBinary.
func extractDarwinTarball(r io.Reader) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("open cloudflared archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return fmt.Errorf("cloudflared binary not found in archive")
		}
		if err != nil {
			return fmt.Errorf("read cloudflared archive: %w", err)
		}
		if filepath.Base(hdr.Name) != "cloudflared" {
			continue
		}
		return writeExecutable(platform.CloudflaredBinary, tr)
	}
}

func writeExecutable(dest string, r io.Reader) error {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
