// Package config provides configuration loading for the LocalDomain daemon.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and environment
// variables. If configFile is empty, it searches for localdomain.yaml/.yml
// in standard locations. The search requires an explicit YAML extension to
// avoid matching the daemon binary itself, which Viper's built-in
// SetConfigName would match (same base name, no extension).
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file found in any standard location.
		// Set name/type without search paths so ReadInConfig returns
		// ConfigFileNotFoundError (handled gracefully by callers).
		viper.SetConfigName("localdomain")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: LOCALDOMAIN_PROXY_HTTP_PORT
	viper.SetEnvPrefix("LOCALDOMAIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches standard locations for a localdomain config file
// with an explicit YAML extension (.yaml or .yml). This prevents Viper from
// matching the binary "localdomain" (no extension) in the current directory.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".localdomain"),
	}
	if runtime.GOOS == "windows" {
		if pd := os.Getenv("ProgramData"); pd != "" {
			paths = append(paths, filepath.Join(pd, "LocalDomain"))
		}
	} else {
		paths = append(paths, "/etc/localdomain")
	}
	return findConfigFileInPaths(paths)
}

// findConfigFileInPaths searches the given directories for localdomain.yaml
// or .yml. Returns the full path of the first match, or empty string if none
// found.
func findConfigFileInPaths(paths []string) string {
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "localdomain"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds every DaemonConfig key for environment variable
// support. Example: LOCALDOMAIN_PROXY_HTTP_PORT overrides proxy.http_port.
func bindNestedEnvKeys() {
	_ = viper.BindEnv("proxy.http_port")
	_ = viper.BindEnv("proxy.https_port")

	_ = viper.BindEnv("xampp.default_path")
	_ = viper.BindEnv("xampp.http_port")
	_ = viper.BindEnv("xampp.ssl_port")

	_ = viper.BindEnv("tunnel.cloudflared_path")
	_ = viper.BindEnv("tunnel.default_cloudflare_domain")

	_ = viper.BindEnv("log_level")
	_ = viper.BindEnv("dev_mode")
}

// LoadConfig reads the configuration file, applies environment overrides,
// sets defaults, and returns the DaemonConfig.
func LoadConfig() (*DaemonConfig, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars only.
	}

	var cfg DaemonConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the path to the configuration file that was loaded.
// Returns an empty string if no config file was found (env vars only mode).
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
