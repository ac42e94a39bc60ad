package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kakha13/localdomain/internal/adapter/inbound/rpc"
	"github.com/kakha13/localdomain/internal/config"
	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/service"
)

// runDaemonForeground is the root command's RunE: it is the entry point for
// both direct execution (macOS/Linux, or Windows with --console) and the
// Windows Service host, which calls runDaemon itself after its own
// dispatcher setup.
func runDaemonForeground(cmd *cobra.Command, args []string) error {
	return runAsForegroundOrService()
}

// runDaemon performs the privileged-daemon boot sequence with the logger it
// is given: privilege check, config load, data directory bootstrap, and the
// JSON-RPC accept loop, until a shutdown signal arrives.
func runDaemon(ctx context.Context, asService bool, logger *slog.Logger) error {
	if !asService && !platform.IsPrivileged() {
		return fmt.Errorf("localdomain must be run as root (or Administrator on Windows)")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Info("loaded config", "file", configFile)
	}
	logger.Debug("config resolved", "log_level", cfg.LogLevel, "proxy_http_port", cfg.Proxy.HTTPPort, "proxy_https_port", cfg.Proxy.HTTPSPort)

	for _, dir := range []string{platform.CertsDir, platform.CaddyDir, platform.LogsDir, platform.TunnelDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}

	svc := service.NewDaemonService()

	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- rpc.Serve(svc, logger)
	}()

	logger.Info("localdomain starting")

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return nil
	case err := <-serveErrCh:
		return fmt.Errorf("rpc server exited: %w", err)
	}
}

// newShutdownContext wires a signal.NotifyContext using the platform's
// graceful-shutdown signal set. The context is cancelled on the first such
// signal; default signal handling is restored only when the returned stop
// function is called.
func newShutdownContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), platform.GracefulSignals()...)
	return ctx, stop
}

// newDaemonLogger builds the daemon's slog.Logger: stderr by default, or a
// daemon.log file under the data directory when running as a Windows
// Service (there is no console to write to).
func newDaemonLogger(asService bool) *slog.Logger {
	level := slog.LevelInfo
	if lvl := os.Getenv("LOCALDOMAIN_LOG_LEVEL"); lvl != "" {
		level = parseLogLevel(lvl)
	}

	if asService {
		if err := os.MkdirAll(platform.LogsDir, 0o755); err == nil {
			logPath := platform.LogsDir + string(os.PathSeparator) + "daemon.log"
			if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
			}
		}
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// parseLogLevel converts a string log level to slog.Level, defaulting to
// info for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
