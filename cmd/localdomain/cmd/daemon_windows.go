//go:build windows

package cmd

import (
	"context"

	"golang.org/x/sys/windows/svc"
)

const serviceName = "localdomain-daemon"

// runAsForegroundOrService decides between console mode (--console, or no
// Windows Service Control Manager attached) and Windows Service mode,
// mirroring the original daemon's --console escape hatch and
// service_dispatcher::start call.
func runAsForegroundOrService() error {
	if runAsConsole {
		return runConsole()
	}

	isService, err := svc.IsWindowsService()
	if err != nil {
		return err
	}
	if !isService {
		return runConsole()
	}

	return svc.Run(serviceName, &daemonServiceHandler{})
}

func runConsole() error {
	logger := newDaemonLogger(false)
	ctx, stop := newShutdownContext()
	defer stop()

	return runDaemon(ctx, false, logger)
}

// daemonServiceHandler implements svc.Handler, translating SCM start/stop
// control requests into the same runDaemon lifecycle the console path uses.
type daemonServiceHandler struct{}

func (h *daemonServiceHandler) Execute(args []string, r <-chan svc.ChangeRequest, changes chan<- svc.Status) (bool, uint32) {
	logger := newDaemonLogger(true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- runDaemon(ctx, true, logger)
	}()

	changes <- svc.Status{State: svc.Running, Accepts: svc.AcceptStop | svc.AcceptShutdown}

	for {
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("daemon exited with error", "err", err)
				changes <- svc.Status{State: svc.Stopped}
				return false, 1
			}
			changes <- svc.Status{State: svc.Stopped}
			return false, 0
		case req := <-r:
			switch req.Cmd {
			case svc.Interrogate:
				changes <- req.CurrentStatus
			case svc.Stop, svc.Shutdown:
				changes <- svc.Status{State: svc.StopPending}
				cancel()
				<-errCh
				changes <- svc.Status{State: svc.Stopped}
				return false, 0
			}
		}
	}
}

var _ svc.Handler = (*daemonServiceHandler)(nil)
