//go:build !windows

// Package platform exposes compile-time, per-OS well-known paths and the
// process primitives (liveness probe, graceful terminate, silent command
// spawn) shared by every supervisor in the daemon.
package platform

const (
	// DataRoot is the root directory for all daemon-managed state.
	DataRoot = "/var/lib/localdomain"

	CertsDir  = DataRoot + "/certs"
	CaddyDir  = DataRoot + "/caddy"
	LogsDir   = DataRoot + "/logs"
	TunnelDir = DataRoot + "/tunnels"

	CaddyBinary  = "/usr/local/bin/caddy"
	Caddyfile    = CaddyDir + "/Caddyfile"
	CaddyPIDFile = CaddyDir + "/caddy.pid"

	CACertFile = CertsDir + "/localdomain-ca.crt"
	CAKeyFile  = CertsDir + "/localdomain-ca.key"

	HostsFile  = "/etc/hosts"
	SocketPath = "/var/run/localdomain.sock"

	CloudflaredBinary = "/usr/local/bin/cloudflared"
)

// DomainCertPath returns the leaf certificate path for domain.
func DomainCertPath(domain string) string {
	return CertsDir + "/" + domain + ".crt"
}

// DomainKeyPath returns the leaf private key path for domain.
func DomainKeyPath(domain string) string {
	return CertsDir + "/" + domain + ".key"
}

// AccessLogPath returns the Caddy JSON access log path for domain.
func AccessLogPath(domain string) string {
	return LogsDir + "/" + domain + ".access.log"
}
