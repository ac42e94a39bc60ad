//go:build windows

package platform

import (
	"os"
	"os/exec"

	"golang.org/x/sys/windows"
)

// IsPrivileged reports whether the daemon is running with Administrator
// rights, probed by shelling out to "net session" (fails with a non-zero
// exit code when the caller lacks admin rights), the same check the
// original Windows build used.
func IsPrivileged() bool {
	cmd := exec.Command("net", "session")
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}

// GracefulSignals returns the OS signals the daemon should capture for
// graceful shutdown. Windows only reliably delivers os.Interrupt
// (CTRL_C_EVENT); SIGTERM does not exist on this platform.
func GracefulSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

// ProcessAlive reports whether pid refers to a live process by opening a
// limited-information handle and checking its exit code.
func ProcessAlive(pid int) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle)

	var exitCode uint32
	if err := windows.GetExitCodeProcess(handle, &exitCode); err != nil {
		return false
	}
	// STILL_ACTIVE (259) means the process has not exited yet.
	return exitCode == 259
}

// Terminate ends the process identified by pid. Windows has no SIGTERM
// equivalent; os.Process.Kill maps to TerminateProcess.
func Terminate(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}

// SilentCommand builds an exec.Cmd for name/args with CREATE_NO_WINDOW set,
// so spawning a console subprocess (caddy.exe, httpd.exe, cloudflared.exe)
// does not flash a console window when the daemon runs as a Windows Service.
func SilentCommand(name string, args ...string) *exec.Cmd {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = &windows.SysProcAttr{CreationFlags: 0x08000000} // CREATE_NO_WINDOW
	return cmd
}
