//go:build !windows

package rpc

import (
	"log/slog"
	"net"
	"os"

	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/port/inbound"
)

// Serve listens on the UNIX domain socket at platform.SocketPath and serves
// JSON-RPC connections against svc. Once listening it does not return:
// accept errors are logged and the loop continues. The socket is chmod'd
// 0666 so unprivileged client processes can connect to a daemon running as
// root.
func Serve(svc inbound.DaemonService, logger *slog.Logger) error {
	_ = os.Remove(platform.SocketPath)

	listener, err := net.Listen("unix", platform.SocketPath)
	if err != nil {
		return err
	}
	defer listener.Close()

	if err := os.Chmod(platform.SocketPath, 0o666); err != nil {
		return err
	}

	logger.Info("daemon listening", "socket", platform.SocketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			logger.Error("accept error", "error", err)
			continue
		}
		go func() {
			defer conn.Close()
			handleConnection(svc, conn, logger)
		}()
	}
}
