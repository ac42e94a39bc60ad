package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDaemonConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	var cfg DaemonConfig
	cfg.SetDefaults()

	if cfg.Proxy.HTTPPort != 80 {
		t.Errorf("Proxy.HTTPPort = %d, want 80", cfg.Proxy.HTTPPort)
	}
	if cfg.Proxy.HTTPSPort != 443 {
		t.Errorf("Proxy.HTTPSPort = %d, want 443", cfg.Proxy.HTTPSPort)
	}
	if cfg.Xampp.HTTPPort != 80 {
		t.Errorf("Xampp.HTTPPort = %d, want 80", cfg.Xampp.HTTPPort)
	}
	if cfg.Xampp.SSLPort != 443 {
		t.Errorf("Xampp.SSLPort = %d, want 443", cfg.Xampp.SSLPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestDaemonConfig_SetDefaults_DevModeForcesDebugLogging(t *testing.T) {
	t.Parallel()

	cfg := DaemonConfig{DevMode: true}
	cfg.SetDefaults()

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestDaemonConfig_SetDefaults_PreservesExistingValues(t *testing.T) {
	t.Parallel()

	cfg := DaemonConfig{
		Proxy:    ProxyConfig{HTTPPort: 8080, HTTPSPort: 8443},
		Xampp:    XamppConfig{HTTPPort: 8081, SSLPort: 8444, DefaultPath: "/opt/lampp"},
		Tunnel:   TunnelConfig{CloudflaredPath: "/custom/cloudflared"},
		LogLevel: "warn",
	}
	cfg.SetDefaults()

	if cfg.Proxy.HTTPPort != 8080 || cfg.Proxy.HTTPSPort != 8443 {
		t.Errorf("Proxy ports overwritten: %+v", cfg.Proxy)
	}
	if cfg.Xampp.HTTPPort != 8081 || cfg.Xampp.SSLPort != 8444 {
		t.Errorf("Xampp ports overwritten: %+v", cfg.Xampp)
	}
	if cfg.Xampp.DefaultPath != "/opt/lampp" {
		t.Errorf("Xampp.DefaultPath overwritten: %q", cfg.Xampp.DefaultPath)
	}
	if cfg.Tunnel.CloudflaredPath != "/custom/cloudflared" {
		t.Errorf("Tunnel.CloudflaredPath overwritten: %q", cfg.Tunnel.CloudflaredPath)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel overwritten: %q, want %q", cfg.LogLevel, "warn")
	}
}

func TestFindConfigFileInPaths_EmptyDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	got := findConfigFileInPaths([]string{dir})
	if got != "" {
		t.Errorf("findConfigFileInPaths(empty dir) = %q, want empty", got)
	}
}

func TestFindConfigFileInPaths_MatchesYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "localdomain.yaml")
	_ = os.WriteFile(cfgPath, []byte("proxy:\n  http_port: 8080\n"), 0644)

	got := findConfigFileInPaths([]string{dir})
	if got != cfgPath {
		t.Errorf("findConfigFileInPaths = %q, want %q", got, cfgPath)
	}
}

func TestFindConfigFileInPaths_MatchesYML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "localdomain.yml")
	_ = os.WriteFile(cfgPath, []byte("proxy:\n  http_port: 8080\n"), 0644)

	got := findConfigFileInPaths([]string{dir})
	if got != cfgPath {
		t.Errorf("findConfigFileInPaths = %q, want %q", got, cfgPath)
	}
}

func TestFindConfigFileInPaths_IgnoresNoExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// Simulate the binary: a file named "localdomain" with no extension.
	_ = os.WriteFile(filepath.Join(dir, "localdomain"), []byte("\x7fELF binary"), 0755)

	got := findConfigFileInPaths([]string{dir})
	if got != "" {
		t.Errorf("findConfigFileInPaths matched binary = %q, want empty", got)
	}
}

func TestFindConfigFileInPaths_PrefersYAMLOverYML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "localdomain.yaml")
	ymlPath := filepath.Join(dir, "localdomain.yml")
	_ = os.WriteFile(yamlPath, []byte("proxy:\n  http_port: 8080\n"), 0644)
	_ = os.WriteFile(ymlPath, []byte("proxy:\n  http_port: 9090\n"), 0644)

	got := findConfigFileInPaths([]string{dir})
	if got != yamlPath {
		t.Errorf("findConfigFileInPaths = %q, want %q (.yaml preferred)", got, yamlPath)
	}
}
