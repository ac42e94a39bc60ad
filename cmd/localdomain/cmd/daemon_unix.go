//go:build !windows

package cmd

// runAsForegroundOrService runs the daemon directly. Unix has no service
// manager equivalent to Windows Service Control Manager in scope here; the
// daemon is expected to be supervised by launchd/systemd, which just exec's
// this binary and sends SIGTERM to stop it.
func runAsForegroundOrService() error {
	logger := newDaemonLogger(false)
	ctx, stop := newShutdownContext()
	defer stop()

	return runDaemon(ctx, false, logger)
}
