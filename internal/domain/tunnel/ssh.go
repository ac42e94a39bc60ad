package tunnel

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

// StartSSHTunnel launches "ssh -R" to forward remotePort on host back to
// localPort on this machine.
func StartSSHTunnel(domain string, localPort uint16, tunnelType rpcdomain.TunnelType) (publicURL string, pid int, err error) {
	port := tunnelType.Port
	if port == 0 {
		port = rpcdomain.DefaultSSHPort
	}

	args := []string{
		"-N",
		"-o", "StrictHostKeyChecking=no",
		"-o", "ExitOnForwardFailure=yes",
		"-p", strconv.Itoa(int(port)),
		"-R", fmt.Sprintf("%d:localhost:%d", tunnelType.RemotePort, localPort),
	}
	if tunnelType.Key != "" {
		args = append(args, "-i", tunnelType.Key)
	}
	args = append(args, fmt.Sprintf("%s@%s", tunnelType.User, tunnelType.Host))

	cmd := platform.SilentCommand("ssh", args...)
	if err := cmd.Start(); err != nil {
		return "", 0, fmt.Errorf("start SSH tunnel: %w", err)
	}

	// give SSH a moment to establish the connection before returning
	time.Sleep(2 * time.Second)

	publicURL = fmt.Sprintf("http://%s:%d", tunnelType.Host, tunnelType.RemotePort)
	return publicURL, cmd.Process.Pid, nil
}
