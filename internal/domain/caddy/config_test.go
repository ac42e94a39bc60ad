package caddy

import (
	"strings"
	"testing"

	"github.com/kakha13/localdomain/internal/rpcdomain"
)

func strPtr(s string) *string { return &s }

func TestBuildCaddyfile_Empty(t *testing.T) {
	result := buildCaddyfile(nil, 8080, 8443)
	if !strings.Contains(result, "admin off") {
		t.Error("expected admin off")
	}
	if !strings.Contains(result, "http_port 8080") {
		t.Error("expected http_port 8080")
	}
	if !strings.Contains(result, "https_port 8443") {
		t.Error("expected https_port 8443")
	}
	if !strings.Contains(result, ":65535") {
		t.Error("expected placeholder site block")
	}
}

func TestBuildCaddyfile_HTTPOnly(t *testing.T) {
	domains := []rpcdomain.CaddyDomainConfig{{
		Name: "project.test", TargetHost: "127.0.0.1", TargetPort: 3000,
		Protocol: "http",
	}}
	result := buildCaddyfile(domains, 8080, 8443)
	if !strings.Contains(result, "http://project.test:8080") {
		t.Error("expected http site block")
	}
	if !strings.Contains(result, "reverse_proxy 127.0.0.1:3000") {
		t.Error("expected reverse_proxy directive")
	}
	if !strings.Contains(result, "header_up Host {host}") {
		t.Error("expected header_up directive")
	}
	if strings.Contains(result, "https://") {
		t.Error("expected no https block")
	}
}

func TestBuildCaddyfile_HTTPSOnly(t *testing.T) {
	domains := []rpcdomain.CaddyDomainConfig{{
		Name: "secure.test", TargetHost: "127.0.0.1", TargetPort: 3000,
		Protocol: "https",
		CertPath: strPtr("/var/lib/localdomain/certs/secure.test.crt"),
		KeyPath:  strPtr("/var/lib/localdomain/certs/secure.test.key"),
	}}
	result := buildCaddyfile(domains, 8080, 8443)
	if !strings.Contains(result, "https://secure.test:8443") {
		t.Error("expected https site block")
	}
	if !strings.Contains(result, "tls") {
		t.Error("expected tls directive")
	}
	if strings.Contains(result, "http://secure.test") {
		t.Error("expected no http block")
	}
}

func TestBuildCaddyfile_BothProtocols(t *testing.T) {
	domains := []rpcdomain.CaddyDomainConfig{{
		Name: "both.test", TargetHost: "127.0.0.1", TargetPort: 3000,
		Protocol: "both",
		CertPath: strPtr("/var/lib/localdomain/certs/both.test.crt"),
		KeyPath:  strPtr("/var/lib/localdomain/certs/both.test.key"),
	}}
	result := buildCaddyfile(domains, 8080, 8443)
	if !strings.Contains(result, "https://both.test:8443") {
		t.Error("expected https block")
	}
	if !strings.Contains(result, "http://both.test:8080") {
		t.Error("expected http block")
	}
}

func TestBuildCaddyfile_AccessLogDirective(t *testing.T) {
	domains := []rpcdomain.CaddyDomainConfig{{
		Name: "logged.test", TargetHost: "127.0.0.1", TargetPort: 3000,
		Protocol: "http", AccessLog: true,
	}}
	result := buildCaddyfile(domains, 80, 443)
	if !strings.Contains(result, "log {") {
		t.Error("expected log directive")
	}
	if !strings.Contains(result, "logged.test.access.log") {
		t.Error("expected log path referencing domain name")
	}
	if !strings.Contains(result, "format json") {
		t.Error("expected json log format")
	}
}

func TestBuildCaddyfile_NoAccessLogByDefault(t *testing.T) {
	domains := []rpcdomain.CaddyDomainConfig{{
		Name: "nolog.test", TargetHost: "127.0.0.1", TargetPort: 3000,
		Protocol: "http",
	}}
	result := buildCaddyfile(domains, 80, 443)
	if strings.Contains(result, "log {") {
		t.Error("expected no log directive")
	}
}

func TestBuildCaddyfile_StandardPortsOmitDirectives(t *testing.T) {
	domains := []rpcdomain.CaddyDomainConfig{{
		Name: "project.test", TargetHost: "127.0.0.1", TargetPort: 3000,
		Protocol: "both",
		CertPath: strPtr("/certs/project.test.crt"),
		KeyPath:  strPtr("/certs/project.test.key"),
	}}
	result := buildCaddyfile(domains, 80, 443)
	if !strings.Contains(result, "http://project.test {") {
		t.Error("expected bare http block")
	}
	if !strings.Contains(result, "https://project.test {") {
		t.Error("expected bare https block")
	}
	if strings.Contains(result, "http_port") || strings.Contains(result, "https_port") {
		t.Error("expected no port directives at standard ports")
	}
}
