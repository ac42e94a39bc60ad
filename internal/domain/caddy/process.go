package caddy

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kakha13/localdomain/internal/platform"
)

const placeholderCaddyfile = "{\n\tadmin off\n}\n\n:65535 {\n\trespond \"LocalDomain placeholder\" 200\n}\n"

// IsRunning reports whether the Caddy process recorded in the PID file is
// still alive.
func IsRunning() bool {
	pid, ok := readPID()
	return ok && platform.ProcessAlive(pid)
}

// Start launches Caddy against the generated Caddyfile, unless it is
// already running. A placeholder Caddyfile is created first if none exists.
func Start() error {
	if IsRunning() {
		return nil
	}

	if _, err := os.Stat(platform.Caddyfile); os.IsNotExist(err) {
		if err := os.WriteFile(platform.Caddyfile, []byte(placeholderCaddyfile), 0o644); err != nil {
			return fmt.Errorf("write placeholder caddyfile: %w", err)
		}
	}

	if _, err := os.Stat(platform.CaddyBinary); os.IsNotExist(err) {
		return fmt.Errorf("caddy binary not found at %s; reinstall the service to download it", platform.CaddyBinary)
	}

	cmd := platform.SilentCommand(platform.CaddyBinary, "run", "--config", platform.Caddyfile)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start caddy: %w", err)
	}

	if err := os.WriteFile(platform.CaddyPIDFile, []byte(strconv.Itoa(cmd.Process.Pid)), 0o644); err != nil {
		return fmt.Errorf("write caddy pid file: %w", err)
	}
	return nil
}

// Stop terminates the recorded Caddy process, waiting up to 5 seconds
// (20 polls of 250ms) for the port to be released, then removes the PID
// file unconditionally.
func Stop() error {
	pid, ok := readPID()
	if ok {
		_ = platform.Terminate(pid)
		for i := 0; i < 20; i++ {
			time.Sleep(250 * time.Millisecond)
			if !platform.ProcessAlive(pid) {
				break
			}
		}
	}
	_ = os.Remove(platform.CaddyPIDFile)
	return nil
}

// Reload stops and restarts Caddy so it picks up a freshly generated
// Caddyfile. Caddy here always runs with "admin off", so the API-driven
// "caddy reload" path is unavailable.
func Reload() error {
	if IsRunning() {
		if err := Stop(); err != nil {
			return err
		}
	}
	return Start()
}

func readPID() (int, bool) {
	data, err := os.ReadFile(platform.CaddyPIDFile)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}
