//go:build windows

package rpc

import (
	"log/slog"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/port/inbound"
)

const (
	pipeBufferSize = 4096
)

// Serve listens on the named pipe at platform.PipeName and serves JSON-RPC
// connections against svc until a fatal pipe error occurs. Each accepted
// client gets its own pipe instance, mirroring the one-instance-per-client
// model used for the UNIX socket listener.
func Serve(svc inbound.DaemonService, logger *slog.Logger) error {
	logger.Info("daemon listening", "pipe", platform.PipeName)

	for {
		handle, err := createPipeInstance()
		if err != nil {
			return err
		}

		if err := windows.ConnectNamedPipe(handle, nil); err != nil && err != windows.ERROR_PIPE_CONNECTED {
			windows.CloseHandle(handle)
			logger.Error("pipe connect error", "error", err)
			continue
		}

		file := os.NewFile(uintptr(handle), platform.PipeName)
		go func() {
			defer file.Close()
			handleConnection(svc, file, logger)
		}()
	}
}

// createPipeInstance opens a new duplex byte-mode instance of the daemon's
// named pipe, permitting unlimited concurrent client instances.
func createPipeInstance() (windows.Handle, error) {
	name, err := syscall.UTF16PtrFromString(platform.PipeName)
	if err != nil {
		return 0, err
	}

	sa, err := permissivePipeSecurityAttributes()
	if err != nil {
		return 0, err
	}

	return windows.CreateNamedPipe(
		name,
		windows.PIPE_ACCESS_DUPLEX,
		windows.PIPE_TYPE_BYTE|windows.PIPE_READMODE_BYTE|windows.PIPE_WAIT,
		windows.PIPE_UNLIMITED_INSTANCES,
		pipeBufferSize,
		pipeBufferSize,
		0,
		sa,
	)
}

// permissivePipeSecurityAttributes builds a SecurityAttributes carrying a
// DACL with a single ACE granting generic-all access to Everyone
// ("D:(A;;GA;;;WD)", in effect as permissive as a null DACL), so an
// unprivileged desktop client can open a pipe created by the SYSTEM/root
// daemon process.
func permissivePipeSecurityAttributes() (*windows.SecurityAttributes, error) {
	sd, err := windows.SecurityDescriptorFromString("D:(A;;GA;;;WD)")
	if err != nil {
		return nil, err
	}

	return &windows.SecurityAttributes{
		Length:             uint32(unsafe.Sizeof(windows.SecurityAttributes{})),
		SecurityDescriptor: sd,
		InheritHandle:      0,
	}, nil
}
