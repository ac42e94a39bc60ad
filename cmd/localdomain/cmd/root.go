// Package cmd provides the CLI commands for the LocalDomain daemon.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kakha13/localdomain/internal/config"
)

var cfgFile string
var runAsConsole bool

var rootCmd = &cobra.Command{
	Use:   "localdomain",
	Short: "LocalDomain - local HTTPS dev proxy and tunnel daemon",
	Long: `LocalDomain is a privileged background daemon for local web development.

It manages a private certificate authority and per-domain leaf certificates,
a sentinel-bounded block of entries in the OS hosts file, an embedded
reverse proxy that terminates TLS for *.test domains, an optional bundled
Apache/XAMPP virtual host configuration, and Cloudflare/SSH tunnels that
expose a local port to the internet.

With no subcommand, the daemon runs in the foreground and accepts control
requests over a local JSON-RPC 2.0 endpoint (a UNIX domain socket on
macOS/Linux, a named pipe on Windows).

Configuration:
  Config is loaded from localdomain.yaml (or .yml) in the current directory,
  $HOME/.localdomain/, or /etc/localdomain/ (%ProgramData%\LocalDomain\ on
  Windows).

  Environment variables can override config values with the LOCALDOMAIN_
  prefix. Example: LOCALDOMAIN_PROXY_HTTP_PORT=8080

Commands:
  trust-ca    Add/remove/verify the CA certificate in the OS trust store
  version     Print version information`,
	RunE: runDaemonForeground,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./localdomain.yaml)")
	rootCmd.PersistentFlags().BoolVar(&runAsConsole, "console", false, "run attached to the console instead of as a Windows Service (Windows only)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
