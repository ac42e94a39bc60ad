// Package rpcdomain holds the wire-facing types shared between the JSON-RPC
// dispatcher and the domain packages. Field names and JSON tags mirror the
// protocol the existing desktop client already speaks, so they are not
// renamed for Go style.
package rpcdomain

import (
	"fmt"
	"regexp"
	"strings"
)

// Protocol is the scheme a domain is served over.
type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
	ProtocolBoth  Protocol = "both"
)

// ParseProtocol validates a protocol string from the wire.
func ParseProtocol(s string) (Protocol, bool) {
	switch Protocol(s) {
	case ProtocolHTTP, ProtocolHTTPS, ProtocolBoth:
		return Protocol(s), true
	default:
		return "", false
	}
}

// HostsEntry is one /etc/hosts mapping managed by the daemon.
type HostsEntry struct {
	Domain string `json:"domain"`
	IP     string `json:"ip"`
}

// CaddyDomainConfig describes one reverse-proxied domain for the Caddyfile
// generator.
type CaddyDomainConfig struct {
	Name       string  `json:"name"`
	TargetHost string  `json:"target_host"`
	TargetPort uint16  `json:"target_port"`
	Protocol   string  `json:"protocol"`
	CertPath   *string `json:"cert_path,omitempty"`
	KeyPath    *string `json:"key_path,omitempty"`
	AccessLog  bool    `json:"access_log"`
}

// XamppVhostConfig describes one Apache VirtualHost the daemon manages.
type XamppVhostConfig struct {
	Name         string  `json:"name"`
	DocumentRoot string  `json:"document_root"`
	Protocol     string  `json:"protocol"`
	CertPath     *string `json:"cert_path,omitempty"`
	KeyPath      *string `json:"key_path,omitempty"`
}

var domainNameRe = regexp.MustCompile(
	`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?)*\.[a-zA-Z]{2,}$`,
)

// ValidateDomainName checks name for use in the hosts file / Caddyfile /
// vhosts config: non-empty, at most 253 characters, and matching the
// dotted-label-plus-TLD shape (e.g. "project.test").
func ValidateDomainName(name string) error {
	if name == "" {
		return fmt.Errorf("domain name cannot be empty")
	}
	if len(name) > 253 {
		return fmt.Errorf("domain name too long (max 253 characters)")
	}
	if !domainNameRe.MatchString(name) {
		return fmt.Errorf("invalid domain name %q: use format like 'project.test'", name)
	}
	return nil
}

// ValidatePort rejects port 0; any other uint16 value is acceptable.
func ValidatePort(port uint16) error {
	if port == 0 {
		return fmt.Errorf("port cannot be 0")
	}
	return nil
}

// ValidateDocumentRoot requires a non-empty absolute path.
func ValidateDocumentRoot(path string) error {
	if path == "" {
		return fmt.Errorf("document root cannot be empty")
	}
	if !strings.HasPrefix(path, "/") && !isWindowsAbsolute(path) {
		return fmt.Errorf("document root must be an absolute path")
	}
	return nil
}

func isWindowsAbsolute(path string) bool {
	return len(path) >= 3 && path[1] == ':' && (path[2] == '\\' || path[2] == '/')
}
