package tunnel

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

const urlPollInterval = 500 * time.Millisecond
const urlPollAttempts = 30

// StartQuickTunnel launches "cloudflared tunnel --url" for domain, pointed
// at the given local port, and waits for cloudflared to report its
// trycloudflare.com public URL.
func StartQuickTunnel(domain string, localPort uint16) (publicURL string, pid int, err error) {
	if _, statErr := os.Stat(platform.CloudflaredBinary); statErr != nil {
		return "", 0, fmt.Errorf("cloudflared not found at %s: run ensure_cloudflared first", platform.CloudflaredBinary)
	}

	if err := os.MkdirAll(platform.TunnelDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create tunnel dir: %w", err)
	}
	logPath := fmt.Sprintf("%s/%s.log", platform.TunnelDir, strings.ReplaceAll(domain, ".", "_"))

	logFile, err := os.Create(logPath)
	if err != nil {
		return "", 0, fmt.Errorf("create tunnel log file: %w", err)
	}
	defer logFile.Close()

	originURL := fmt.Sprintf("http://%s:%d", domain, localPort)
	cmd := platform.SilentCommand(platform.CloudflaredBinary, "tunnel", "--url", originURL, "--http-host-header", domain)
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return "", 0, fmt.Errorf("start cloudflared: %w", err)
	}
	pid = cmd.Process.Pid

	url, found := pollForURL(logPath, func(u string) bool {
		return strings.Contains(u, "trycloudflare.com")
	})
	if !found {
		_ = platform.Terminate(pid)
		return "", 0, fmt.Errorf("timed out waiting for cloudflared to provide a public URL")
	}
	return url, pid, nil
}

// StartNamedTunnel launches a Cloudflare Named Tunnel for domain. When
// tunnelType carries CredentialsJSON and TunnelUUID it runs in config-file
// mode (writing credentials + an ingress config.yml); otherwise it runs in
// --token mode against a tunnel whose ingress is managed remotely.
func StartNamedTunnel(domain string, localPort uint16, tunnelType rpcdomain.TunnelType) (publicURL string, pid int, err error) {
	if _, statErr := os.Stat(platform.CloudflaredBinary); statErr != nil {
		return "", 0, fmt.Errorf("cloudflared not found at %s: run ensure_cloudflared first", platform.CloudflaredBinary)
	}

	if err := os.MkdirAll(platform.TunnelDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create tunnel dir: %w", err)
	}
	logPath := fmt.Sprintf("%s/%s_named.log", platform.TunnelDir, strings.ReplaceAll(domain, ".", "_"))

	logFile, err := os.Create(logPath)
	if err != nil {
		return "", 0, fmt.Errorf("create tunnel log file: %w", err)
	}
	defer logFile.Close()

	useConfigMode := tunnelType.CredentialsJSON != "" && tunnelType.TunnelUUID != ""

	var spawnErr error
	var proc *processHandle
	if useConfigMode {
		proc, spawnErr = spawnNamedConfigMode(domain, localPort, tunnelType, logFile)
	} else {
		proc, spawnErr = spawnNamedTokenMode(tunnelType.Token, logFile)
	}
	if spawnErr != nil {
		return "", 0, spawnErr
	}
	pid = proc.pid

	url, found := pollForURL(logPath, func(u string) bool {
		return !strings.Contains(u, "trycloudflare.com") &&
			!strings.Contains(u, "argotunnel.com") &&
			len(u) > len("https://")+3
	})
	if found {
		return url, pid, nil
	}

	if tunnelType.Subdomain != "" && tunnelType.CloudflareDomain != "" {
		return fmt.Sprintf("https://%s.%s", tunnelType.Subdomain, tunnelType.CloudflareDomain), pid, nil
	}
	return "https://tunnel-connecting...", pid, nil
}

type processHandle struct{ pid int }

// namedTunnelConfig mirrors cloudflared's ingress config file shape
// (tunnel, credentials-file, ingress rules), the same shape
// cloudflared.rs built with serde_yaml.
type namedTunnelConfig struct {
	Tunnel          string        `yaml:"tunnel"`
	CredentialsFile string        `yaml:"credentials-file"`
	Ingress         []ingressRule `yaml:"ingress"`
}

type ingressRule struct {
	Hostname      string         `yaml:"hostname,omitempty"`
	Service       string         `yaml:"service"`
	OriginRequest *originRequest `yaml:"originRequest,omitempty"`
}

type originRequest struct {
	HTTPHostHeader string `yaml:"httpHostHeader"`
}

func spawnNamedConfigMode(domain string, localPort uint16, tunnelType rpcdomain.TunnelType, logFile *os.File) (*processHandle, error) {
	credsPath := fmt.Sprintf("%s/%s.json", platform.TunnelDir, tunnelType.TunnelUUID)
	if err := os.WriteFile(credsPath, []byte(tunnelType.CredentialsJSON), 0o600); err != nil {
		return nil, fmt.Errorf("write tunnel credentials: %w", err)
	}

	hostname := ""
	if tunnelType.Subdomain != "" && tunnelType.CloudflareDomain != "" {
		hostname = fmt.Sprintf("%s.%s", tunnelType.Subdomain, tunnelType.CloudflareDomain)
	}

	config := namedTunnelConfig{
		Tunnel:          tunnelType.TunnelUUID,
		CredentialsFile: credsPath,
		Ingress: []ingressRule{
			{
				Hostname:      hostname,
				Service:       fmt.Sprintf("http://%s:%d", domain, localPort),
				OriginRequest: &originRequest{HTTPHostHeader: domain},
			},
			{Service: "http_status:404"},
		},
	}
	configContent, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal tunnel config: %w", err)
	}
	configPath := fmt.Sprintf("%s/%s_config.yml", platform.TunnelDir, strings.ReplaceAll(domain, ".", "_"))
	if err := os.WriteFile(configPath, configContent, 0o644); err != nil {
		return nil, fmt.Errorf("write tunnel config: %w", err)
	}

	cmd := platform.SilentCommand(platform.CloudflaredBinary, "tunnel", "--config", configPath, "run", tunnelType.TunnelUUID)
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start cloudflared named tunnel (config mode): %w", err)
	}
	return &processHandle{pid: cmd.Process.Pid}, nil
}

func spawnNamedTokenMode(token string, logFile *os.File) (*processHandle, error) {
	cmd := platform.SilentCommand(platform.CloudflaredBinary, "tunnel", "run", "--token", token)
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start cloudflared named tunnel: %w", err)
	}
	return &processHandle{pid: cmd.Process.Pid}, nil
}

// pollForURL polls logPath for up to 15s, returning the first "https://"
// URL on any line for which accept returns true.
func pollForURL(logPath string, accept func(string) bool) (string, bool) {
	return pollForURLWithParams(logPath, urlPollAttempts, urlPollInterval, accept)
}

func pollForURLWithParams(logPath string, attempts int, interval time.Duration, accept func(string) bool) (string, bool) {
	for i := 0; i < attempts; i++ {
		time.Sleep(interval)

		data, err := os.ReadFile(logPath)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			idx := strings.Index(line, "https://")
			if idx == -1 {
				continue
			}
			urlPart := line[idx:]
			end := strings.IndexFunc(urlPart, func(r rune) bool {
				return r == ' ' || r == '\t' || r == '"' || r == '\''
			})
			if end == -1 {
				end = len(urlPart)
			}
			url := urlPart[:end]
			if accept(url) {
				return url, true
			}
		}
	}
	return "", false
}
