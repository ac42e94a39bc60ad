// Package service wires the daemon's domain packages together behind a
// single entry point the inbound RPC adapter dispatches against.
package service

import (
	"fmt"
	"os"

	"github.com/kakha13/localdomain/internal/domain/caddy"
	"github.com/kakha13/localdomain/internal/domain/certs"
	"github.com/kakha13/localdomain/internal/domain/hosts"
	"github.com/kakha13/localdomain/internal/domain/logaccess"
	"github.com/kakha13/localdomain/internal/domain/trust"
	"github.com/kakha13/localdomain/internal/domain/tunnel"
	"github.com/kakha13/localdomain/internal/domain/xampp"
	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/port/inbound"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

// DaemonService implements every operation the RPC dispatcher exposes,
// delegating to the domain packages that own each concern.
type DaemonService struct {
	tunnels *tunnel.Registry
}

// NewDaemonService constructs a DaemonService with a fresh tunnel registry.
func NewDaemonService() *DaemonService {
	return &DaemonService{tunnels: tunnel.NewRegistry()}
}

// Status reports the daemon's and its child processes' running state.
func (s *DaemonService) Status() rpcdomain.StatusResult {
	xamppResult := xampp.Detect()
	xamppRunning := false
	if xamppResult.Found && xamppResult.Path != nil {
		xamppRunning = xampp.IsRunning(*xamppResult.Path)
	}

	return rpcdomain.StatusResult{
		DaemonRunning: true,
		CaddyRunning:  caddy.IsRunning(),
		CAInstalled:   caExists(),
		CATrusted:     trust.Verify(),
		XamppRunning:  xamppRunning,
	}
}

func caExists() bool {
	if _, err := os.Stat(platform.CACertFile); err != nil {
		return false
	}
	if _, err := os.Stat(platform.CAKeyFile); err != nil {
		return false
	}
	return true
}

// SyncHosts rewrites the managed block of the OS hosts file.
func (s *DaemonService) SyncHosts(entries []rpcdomain.HostsEntry) error {
	return hosts.Sync(entries)
}

// SyncCaddyConfig regenerates the Caddyfile and reloads the proxy.
func (s *DaemonService) SyncCaddyConfig(params rpcdomain.SyncCaddyConfigParams) error {
	if err := caddy.GenerateCaddyfile(params.Domains, params.HTTPPort, params.HTTPSPort); err != nil {
		return err
	}
	return caddy.Reload()
}

// StartCaddy starts the reverse proxy.
func (s *DaemonService) StartCaddy() error { return caddy.Start() }

// StopCaddy stops the reverse proxy.
func (s *DaemonService) StopCaddy() error { return caddy.Stop() }

// GenerateCA ensures the root CA exists, generating it if absent.
func (s *DaemonService) GenerateCA() error {
	_, err := certs.NewCAManager(platform.CACertFile, platform.CAKeyFile)
	return err
}

// GenerateCert issues a leaf certificate for domain signed by the root CA.
func (s *DaemonService) GenerateCert(domain string) (rpcdomain.GenerateCertResult, error) {
	mgr, err := certs.NewCAManager(platform.CACertFile, platform.CAKeyFile)
	if err != nil {
		return rpcdomain.GenerateCertResult{}, fmt.Errorf("load CA: %w", err)
	}
	certPath, keyPath, err := mgr.GenerateCertPaths(domain)
	if err != nil {
		return rpcdomain.GenerateCertResult{}, err
	}
	return rpcdomain.GenerateCertResult{CertPath: certPath, KeyPath: keyPath}, nil
}

// InstallCATrust installs the root CA into the OS trust store.
func (s *DaemonService) InstallCATrust() error {
	return trust.Install(platform.CACertFile)
}

// RemoveCATrust removes the root CA from the OS trust store.
func (s *DaemonService) RemoveCATrust() error {
	return trust.Remove(platform.CACertFile)
}

// GetAccessLog returns the most recent access log entries for domain.
func (s *DaemonService) GetAccessLog(domain string, limit uint64) ([]rpcdomain.AccessLogEntry, error) {
	return logaccess.Read(domain, limit)
}

// ClearAccessLog truncates domain's access log.
func (s *DaemonService) ClearAccessLog(domain string) error {
	return logaccess.Clear(domain)
}

// StartTunnel launches a tunnel per params.
func (s *DaemonService) StartTunnel(params rpcdomain.StartTunnelParams) (rpcdomain.StartTunnelResult, error) {
	return s.tunnels.Start(params)
}

// StopTunnel stops the tunnel for params.Domain.
func (s *DaemonService) StopTunnel(params rpcdomain.StopTunnelParams) error {
	return s.tunnels.Stop(params)
}

// TunnelStatus reports the status of the tunnel for params.Domain.
func (s *DaemonService) TunnelStatus(params rpcdomain.TunnelStatusParams) rpcdomain.TunnelStatusResult {
	return s.tunnels.Status(params)
}

// ListTunnels returns every live tunnel.
func (s *DaemonService) ListTunnels() rpcdomain.ListTunnelsResult {
	return s.tunnels.List()
}

// EnsureCloudflared downloads cloudflared if it is not already installed.
func (s *DaemonService) EnsureCloudflared() (rpcdomain.EnsureCloudflaredResult, error) {
	return tunnel.EnsureCloudflared()
}

// StopAllTunnels terminates every registered tunnel.
func (s *DaemonService) StopAllTunnels() {
	s.tunnels.StopAll()
}

// DetectXampp probes the platform's default install locations for XAMPP.
func (s *DaemonService) DetectXampp() rpcdomain.DetectXamppResult {
	return xampp.Detect()
}

// SyncXamppConfig rewrites the managed vhosts block, tests the resulting
// config, and restarts Apache, rolling the vhosts file back to its
// pre-sync contents if either step fails.
func (s *DaemonService) SyncXamppConfig(params rpcdomain.SyncXamppConfigParams) error {
	if err := xampp.SyncVhostsConfig(params.Vhosts, params.XamppPath); err != nil {
		return err
	}

	if err := xampp.TestConfig(params.XamppPath); err != nil {
		_ = xampp.RollbackVhosts(params.XamppPath)
		return fmt.Errorf("apache config test failed: %w", err)
	}

	if err := xampp.Restart(params.XamppPath); err != nil {
		_ = xampp.RollbackVhosts(params.XamppPath)
		return fmt.Errorf("apache restart failed: %w", err)
	}

	return nil
}

// StartApache starts Apache for the XAMPP installation at xamppPath.
func (s *DaemonService) StartApache(xamppPath string) error { return xampp.Start(xamppPath) }

// StopApache stops Apache for the XAMPP installation at xamppPath.
func (s *DaemonService) StopApache(xamppPath string) error { return xampp.Stop(xamppPath) }

var _ inbound.DaemonService = (*DaemonService)(nil)
