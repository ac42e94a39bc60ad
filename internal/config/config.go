// Package config provides configuration types for the LocalDomain daemon.
//
// DaemonConfig holds the settings read from an optional localdomain.yaml and
// LOCALDOMAIN_* environment variables: proxy ports, XAMPP/Apache values, a
// cloudflared path, and a log level. All fields are optional; SetDefaults
// fills in values before validation. The daemon loads and validates it at
// startup and logs the log level and proxy ports at debug level; no other
// component reads these fields. The per-OS data paths are constants in
// internal/platform and are not configurable.
package config

// DaemonConfig is the top-level configuration for the LocalDomain daemon.
type DaemonConfig struct {
	// Proxy configures the embedded reverse proxy's listen ports.
	Proxy ProxyConfig `yaml:"proxy" mapstructure:"proxy"`

	// Xampp configures the bundled Apache/XAMPP integration defaults.
	Xampp XamppConfig `yaml:"xampp" mapstructure:"xampp"`

	// Tunnel configures the Cloudflare/SSH tunnel manager.
	Tunnel TunnelConfig `yaml:"tunnel" mapstructure:"tunnel"`

	// LogLevel is the configured minimum log level.
	// Valid values: "debug", "info", "warn", "warning", "error".
	// The daemon's logger is built before the config is loaded and takes its
	// level from the LOCALDOMAIN_LOG_LEVEL environment variable; a level set
	// only in the config file does not change logging.
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// DevMode makes SetDefaults force LogLevel to "debug". It has no other
	// effect.
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// ProxyConfig configures the embedded reverse proxy.
type ProxyConfig struct {
	// HTTPPort is the proxy's plaintext port. Defaults to 80. The Caddyfile
	// is generated from the ports in each sync_caddy_config request, not
	// from this value.
	HTTPPort uint16 `yaml:"http_port" mapstructure:"http_port" validate:"omitempty,min=1"`

	// HTTPSPort is the proxy's TLS port. Defaults to 443. The Caddyfile is
	// generated from the ports in each sync_caddy_config request, not from
	// this value.
	HTTPSPort uint16 `yaml:"https_port" mapstructure:"https_port" validate:"omitempty,min=1"`
}

// XamppConfig configures defaults for the bundled Apache/XAMPP integration.
type XamppConfig struct {
	// DefaultPath is a XAMPP installation directory. XAMPP RPC calls take
	// the installation path only from their own xampp_path parameter, and
	// detect_xampp probes the platform's default locations; neither reads
	// this value.
	DefaultPath string `yaml:"default_path" mapstructure:"default_path"`

	// HTTPPort is the expected Apache HTTP port. Defaults to 80. Vhost
	// generation uses the Listen port parsed from httpd.conf, not this value.
	HTTPPort uint16 `yaml:"http_port" mapstructure:"http_port" validate:"omitempty,min=1"`

	// SSLPort is the expected Apache TLS port. Defaults to 443. Vhost
	// generation uses the Listen port parsed from httpd-ssl.conf, not this
	// value.
	SSLPort uint16 `yaml:"ssl_port" mapstructure:"ssl_port" validate:"omitempty,min=1"`
}

// TunnelConfig configures the Cloudflare/SSH tunnel manager.
type TunnelConfig struct {
	// CloudflaredPath names a cloudflared binary. Tunnels and
	// ensure_cloudflared always use internal/platform.CloudflaredBinary and
	// do not read this value.
	CloudflaredPath string `yaml:"cloudflared_path" mapstructure:"cloudflared_path"`

	// DefaultCloudflareDomain names a Cloudflare zone. A Named Tunnel's
	// fallback public URL is built only from the tunnel type's own subdomain
	// and cloudflare_domain; this value is not read.
	DefaultCloudflareDomain string `yaml:"default_cloudflare_domain" mapstructure:"default_cloudflare_domain"`
}

// SetDefaults applies sensible default values to the configuration.
func (c *DaemonConfig) SetDefaults() {
	if c.Proxy.HTTPPort == 0 {
		c.Proxy.HTTPPort = 80
	}
	if c.Proxy.HTTPSPort == 0 {
		c.Proxy.HTTPSPort = 443
	}

	if c.Xampp.HTTPPort == 0 {
		c.Xampp.HTTPPort = 80
	}
	if c.Xampp.SSLPort == 0 {
		c.Xampp.SSLPort = 443
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DevMode {
		c.LogLevel = "debug"
	}
}
