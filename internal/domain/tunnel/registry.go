// Package tunnel starts, tracks, and tears down outbound tunnel processes
// (Cloudflare Quick/Named tunnels and SSH reverse tunnels) that expose a
// local domain to the public internet.
package tunnel

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

// process tracks one running tunnel child process.
type process struct {
	domain     string
	publicURL  string
	tunnelType rpcdomain.TunnelType
	pid        int
}

// Registry holds the set of active tunnels, keyed by domain.
type Registry struct {
	mu      sync.Mutex
	tunnels map[string]*process
}

// NewRegistry returns an empty tunnel registry.
func NewRegistry() *Registry {
	return &Registry{tunnels: make(map[string]*process)}
}

// Start launches a tunnel for params.Domain, first stopping any existing
// tunnel for that domain, and registers the resulting process.
func (r *Registry) Start(params rpcdomain.StartTunnelParams) (rpcdomain.StartTunnelResult, error) {
	_ = r.Stop(rpcdomain.StopTunnelParams{Domain: params.Domain})

	var publicURL string
	var pid int
	var err error

	switch params.TunnelType.Type {
	case rpcdomain.TunnelKindQuick:
		publicURL, pid, err = StartQuickTunnel(params.Domain, params.LocalPort)
	case rpcdomain.TunnelKindNamed:
		publicURL, pid, err = StartNamedTunnel(params.Domain, params.LocalPort, params.TunnelType)
	case rpcdomain.TunnelKindSSH:
		publicURL, pid, err = StartSSHTunnel(params.Domain, params.LocalPort, params.TunnelType)
	default:
		return rpcdomain.StartTunnelResult{}, fmt.Errorf("unknown tunnel type: %q", params.TunnelType.Type)
	}
	if err != nil {
		return rpcdomain.StartTunnelResult{}, err
	}

	tunnelID := "tunnel-" + uuid.New().String()

	r.mu.Lock()
	r.tunnels[params.Domain] = &process{
		domain:     params.Domain,
		publicURL:  publicURL,
		tunnelType: params.TunnelType,
		pid:        pid,
	}
	r.mu.Unlock()

	return rpcdomain.StartTunnelResult{PublicURL: publicURL, TunnelID: tunnelID}, nil
}

// Stop terminates the tunnel for params.Domain, if any, and waits up to 3s
// for its process to exit.
func (r *Registry) Stop(params rpcdomain.StopTunnelParams) error {
	r.mu.Lock()
	p, ok := r.tunnels[params.Domain]
	if ok {
		delete(r.tunnels, params.Domain)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}

	if platform.ProcessAlive(p.pid) {
		_ = platform.Terminate(p.pid)
		for i := 0; i < 12; i++ {
			time.Sleep(250 * time.Millisecond)
			if !platform.ProcessAlive(p.pid) {
				break
			}
		}
	}
	return nil
}

// Status reports whether params.Domain has a live tunnel, and its details
// if so.
func (r *Registry) Status(params rpcdomain.TunnelStatusParams) rpcdomain.TunnelStatusResult {
	r.mu.Lock()
	p, ok := r.tunnels[params.Domain]
	r.mu.Unlock()

	if !ok {
		return rpcdomain.TunnelStatusResult{Active: false}
	}

	if !platform.ProcessAlive(p.pid) {
		errMsg := "Tunnel process is no longer running"
		return rpcdomain.TunnelStatusResult{Active: false, Error: &errMsg}
	}

	publicURL := p.publicURL
	tunnelType := p.tunnelType
	return rpcdomain.TunnelStatusResult{
		Active:     true,
		PublicURL:  &publicURL,
		TunnelType: &tunnelType,
	}
}

// List returns every registered tunnel, pruning any whose process has
// exited.
func (r *Registry) List() rpcdomain.ListTunnelsResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	for domain, p := range r.tunnels {
		if !platform.ProcessAlive(p.pid) {
			delete(r.tunnels, domain)
		}
	}

	infos := make([]rpcdomain.TunnelInfo, 0, len(r.tunnels))
	for _, p := range r.tunnels {
		infos = append(infos, rpcdomain.TunnelInfo{
			Domain:     p.domain,
			PublicURL:  p.publicURL,
			TunnelType: p.tunnelType,
			PID:        uint32(p.pid),
		})
	}
	return rpcdomain.ListTunnelsResult{Tunnels: infos}
}

// StopAll terminates every registered tunnel. It backs the stop_all_tunnels
// RPC; daemon shutdown does not call it, so tunnels outlive the daemon.
func (r *Registry) StopAll() {
	r.mu.Lock()
	tunnels := r.tunnels
	r.tunnels = make(map[string]*process)
	r.mu.Unlock()

	for _, p := range tunnels {
		if platform.ProcessAlive(p.pid) {
			_ = platform.Terminate(p.pid)
		}
	}
}
