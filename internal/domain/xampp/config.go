package xampp

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/kakha13/localdomain/internal/adapter/outbound/atomicfile"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

const (
	vhostsSentinelStart = "# BEGIN LOCALDOMAIN MANAGED VHOSTS"
	vhostsSentinelEnd   = "# END LOCALDOMAIN MANAGED VHOSTS"
)

// VhostsConfPath returns the httpd-vhosts.conf path for a XAMPP installation.
func VhostsConfPath(xamppPath string) string {
	if runtime.GOOS == "windows" {
		return xamppPath + `\apache\conf\extra\httpd-vhosts.conf`
	}
	return xamppPath + "/etc/extra/httpd-vhosts.conf"
}

func httpdConfPath(xamppPath string) string {
	if runtime.GOOS == "windows" {
		return xamppPath + `\apache\conf\httpd.conf`
	}
	return xamppPath + "/etc/httpd.conf"
}

func httpdSSLConfPath(xamppPath string) string {
	if runtime.GOOS == "windows" {
		return xamppPath + `\apache\conf\extra\httpd-ssl.conf`
	}
	return xamppPath + "/etc/extra/httpd-ssl.conf"
}

// GetPorts parses the first uncommented Listen directive out of httpd.conf
// and httpd-ssl.conf, defaulting to 80/443 when absent or unparseable.
func GetPorts(xamppPath string) (httpPort, sslPort uint16) {
	httpPort = parseListenPort(httpdConfPath(xamppPath))
	if httpPort == 0 {
		httpPort = 80
	}
	sslPort = parseListenPort(httpdSSLConfPath(xamppPath))
	if sslPort == 0 {
		sslPort = 443
	}
	return httpPort, sslPort
}

// parseListenPort handles "Listen 80", "Listen 0.0.0.0:80", and
// "Listen [::]:80" forms, returning 0 if none is found.
func parseListenPort(confPath string) uint16 {
	content, err := os.ReadFile(confPath)
	if err != nil {
		return 0
	}

	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		value, ok := strings.CutPrefix(trimmed, "Listen")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if colon := strings.LastIndex(value, ":"); colon != -1 {
			if port, ok := leadingDigits(value[colon+1:]); ok {
				return port
			}
		}
		if port, ok := leadingDigits(value); ok {
			return port
		}
	}
	return 0
}

func leadingDigits(s string) (uint16, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseUint(s[:end], 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}

// SyncVhostsConfig rewrites the managed block in httpd-vhosts.conf to
// contain exactly vhosts, preserving user-defined entries outside the
// block, then ensures the vhosts include and (if needed) the SSL module
// are enabled in httpd.conf.
func SyncVhostsConfig(vhosts []rpcdomain.XamppVhostConfig, xamppPath string) error {
	confPath := VhostsConfPath(xamppPath)
	httpPort, sslPort := GetPorts(xamppPath)

	current := ""
	if data, err := os.ReadFile(confPath); err == nil {
		current = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read httpd-vhosts.conf: %w", err)
	}

	content := buildVhostsContent(current, vhosts, xamppPath, httpPort, sslPort)

	if err := atomicfile.WriteWithBackup(confPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write httpd-vhosts.conf: %w", err)
	}

	if err := EnsureVhostsInclude(xamppPath); err != nil {
		return err
	}

	needsSSL := false
	for _, v := range vhosts {
		if v.Protocol == "https" || v.Protocol == "both" {
			needsSSL = true
			break
		}
	}
	if needsSSL {
		if err := EnsureSSLModule(xamppPath); err != nil {
			return err
		}
	}

	return nil
}

// RollbackVhosts restores httpd-vhosts.conf from its ".localdomain.bak" backup.
func RollbackVhosts(xamppPath string) error {
	return atomicfile.RestoreBackup(VhostsConfPath(xamppPath))
}

func buildVhostsContent(current string, vhosts []rpcdomain.XamppVhostConfig, xamppPath string, httpPort, sslPort uint16) string {
	var lines []string
	inBlock := false

	for _, line := range strings.Split(current, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == vhostsSentinelStart {
			inBlock = true
			continue
		}
		if trimmed == vhostsSentinelEnd {
			inBlock = false
			continue
		}
		if !inBlock {
			lines = append(lines, line)
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var b strings.Builder
	result := strings.Join(lines, "\n")
	b.WriteString(result)
	if result != "" {
		b.WriteByte('\n')
	}

	if len(vhosts) == 0 {
		return b.String()
	}

	b.WriteByte('\n')
	b.WriteString(vhostsSentinelStart)
	b.WriteByte('\n')
	b.WriteString(buildLocalhostVhost(xamppPath, httpPort))

	for _, v := range vhosts {
		if v.Protocol == "http" || v.Protocol == "both" {
			b.WriteString(buildHTTPVhost(v, httpPort))
		}
		if v.Protocol == "https" || v.Protocol == "both" {
			b.WriteString(buildHTTPSVhost(v, sslPort))
		}
	}

	b.WriteString(vhostsSentinelEnd)
	b.WriteByte('\n')
	return b.String()
}

func buildLocalhostVhost(xamppPath string, httpPort uint16) string {
	return fmt.Sprintf("<VirtualHost *:%d>\n    ServerName localhost\n    DocumentRoot \"%s/htdocs\"\n</VirtualHost>\n\n",
		httpPort, xamppPath)
}

func buildHTTPVhost(v rpcdomain.XamppVhostConfig, httpPort uint16) string {
	return fmt.Sprintf(
		"<VirtualHost *:%d>\n    ServerName %s\n    DocumentRoot \"%s\"\n    <Directory \"%s\">\n        Options Indexes FollowSymLinks\n        AllowOverride All\n        Require all granted\n    </Directory>\n</VirtualHost>\n\n",
		httpPort, v.Name, v.DocumentRoot, v.DocumentRoot,
	)
}

func buildHTTPSVhost(v rpcdomain.XamppVhostConfig, sslPort uint16) string {
	certPath, keyPath := "", ""
	if v.CertPath != nil {
		certPath = *v.CertPath
	}
	if v.KeyPath != nil {
		keyPath = *v.KeyPath
	}
	return fmt.Sprintf(
		"<VirtualHost *:%d>\n    ServerName %s\n    DocumentRoot \"%s\"\n    SSLEngine on\n    SSLCertificateFile \"%s\"\n    SSLCertificateKeyFile \"%s\"\n    <Directory \"%s\">\n        Options Indexes FollowSymLinks\n        AllowOverride All\n        Require all granted\n    </Directory>\n</VirtualHost>\n\n",
		sslPort, v.Name, v.DocumentRoot, certPath, keyPath, v.DocumentRoot,
	)
}

// EnsureVhostsInclude uncomments the "Include .../httpd-vhosts.conf" line in
// httpd.conf if it is present but commented out, leaving the file untouched
// if the include is already active or httpd.conf does not exist.
func EnsureVhostsInclude(xamppPath string) error {
	return ensureUncommented(httpdConfPath(xamppPath), "Include", "httpd-vhosts.conf")
}

// EnsureSSLModule uncomments the ssl_module LoadModule line in httpd.conf if
// it is present but commented out.
func EnsureSSLModule(xamppPath string) error {
	return ensureUncommented(httpdConfPath(xamppPath), "LoadModule", "ssl_module")
}

func ensureUncommented(confPath, directive, marker string) error {
	data, err := os.ReadFile(confPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", confPath, err)
	}
	content := string(data)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") && strings.Contains(trimmed, directive) && strings.Contains(trimmed, marker) {
			return nil
		}
	}

	lines := strings.Split(content, "\n")
	changed := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.Contains(trimmed, directive) && strings.Contains(trimmed, marker) {
			lines[i] = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return os.WriteFile(confPath, []byte(strings.Join(lines, "\n")), 0o644)
}
