// Package inbound declares the operations the daemon exposes to inbound
// transports (the JSON-RPC IPC server), independent of any one transport's
// wire framing.
package inbound

import "github.com/kakha13/localdomain/internal/rpcdomain"

// DaemonService is every operation the RPC dispatcher can invoke.
// *service.DaemonService implements this interface.
type DaemonService interface {
	Status() rpcdomain.StatusResult

	SyncHosts(entries []rpcdomain.HostsEntry) error

	SyncCaddyConfig(params rpcdomain.SyncCaddyConfigParams) error
	StartCaddy() error
	StopCaddy() error

	GenerateCA() error
	GenerateCert(domain string) (rpcdomain.GenerateCertResult, error)
	InstallCATrust() error
	RemoveCATrust() error

	GetAccessLog(domain string, limit uint64) ([]rpcdomain.AccessLogEntry, error)
	ClearAccessLog(domain string) error

	StartTunnel(params rpcdomain.StartTunnelParams) (rpcdomain.StartTunnelResult, error)
	StopTunnel(params rpcdomain.StopTunnelParams) error
	TunnelStatus(params rpcdomain.TunnelStatusParams) rpcdomain.TunnelStatusResult
	ListTunnels() rpcdomain.ListTunnelsResult
	EnsureCloudflared() (rpcdomain.EnsureCloudflaredResult, error)
	StopAllTunnels()

	DetectXampp() rpcdomain.DetectXamppResult
	SyncXamppConfig(params rpcdomain.SyncXamppConfigParams) error
	StartApache(xamppPath string) error
	StopApache(xamppPath string) error
}
