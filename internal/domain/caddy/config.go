// Package caddy generates the daemon's Caddyfile and supervises the
// reverse-proxy process that runs it.
package caddy

import (
	"fmt"
	"strings"

	"github.com/kakha13/localdomain/internal/adapter/outbound/atomicfile"
	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

// GenerateCaddyfile builds the Caddyfile content for domains and writes it
// atomically (temp file, fsync, rename) to the platform Caddyfile path.
func GenerateCaddyfile(domains []rpcdomain.CaddyDomainConfig, httpPort, httpsPort uint16) error {
	content := buildCaddyfile(domains, httpPort, httpsPort)

	if err := atomicfile.Write(platform.Caddyfile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write caddyfile: %w", err)
	}
	return nil
}

func buildCaddyfile(domains []rpcdomain.CaddyDomainConfig, httpPort, httpsPort uint16) string {
	var out strings.Builder

	out.WriteString("{\n\tadmin off\n")
	if httpPort != 80 {
		fmt.Fprintf(&out, "\thttp_port %d\n", httpPort)
	}
	if httpsPort != 443 {
		fmt.Fprintf(&out, "\thttps_port %d\n", httpsPort)
	}
	out.WriteString("}\n\n")

	if len(domains) == 0 {
		out.WriteString(":65535 {\n\trespond \"LocalDomain placeholder\" 200\n}\n")
		return out.String()
	}

	for _, d := range domains {
		wantsHTTPS := d.Protocol == "https" || d.Protocol == "both"
		wantsHTTP := d.Protocol == "http" || d.Protocol == "both"

		if wantsHTTPS && d.CertPath != nil && d.KeyPath != nil {
			if httpsPort != 443 {
				fmt.Fprintf(&out, "https://%s:%d {\n", d.Name, httpsPort)
			} else {
				fmt.Fprintf(&out, "https://%s {\n", d.Name)
			}
			fmt.Fprintf(&out, "\ttls %s %s\n", *d.CertPath, *d.KeyPath)
			fmt.Fprintf(&out, "\treverse_proxy %s:%d {\n\t\theader_up Host {host}\n\t}\n", d.TargetHost, d.TargetPort)
			out.WriteString("\tbind 127.0.0.1\n")
			if d.AccessLog {
				appendLogDirective(&out, d.Name)
			}
			out.WriteString("}\n\n")
		}

		if wantsHTTP {
			if httpPort != 80 {
				fmt.Fprintf(&out, "http://%s:%d {\n", d.Name, httpPort)
			} else {
				fmt.Fprintf(&out, "http://%s {\n", d.Name)
			}
			fmt.Fprintf(&out, "\treverse_proxy %s:%d {\n\t\theader_up Host {host}\n\t}\n", d.TargetHost, d.TargetPort)
			out.WriteString("\tbind 127.0.0.1\n")
			if d.AccessLog {
				appendLogDirective(&out, d.Name)
			}
			out.WriteString("}\n\n")
		}
	}

	return out.String()
}

func appendLogDirective(out *strings.Builder, domainName string) {
	logPath := platform.AccessLogPath(domainName)
	out.WriteString("\tlog {\n")
	fmt.Fprintf(out, "\t\toutput file %s {\n", logPath)
	out.WriteString("\t\t\troll_size 10mb\n")
	out.WriteString("\t\t\troll_keep 1\n")
	out.WriteString("\t\t}\n")
	out.WriteString("\t\tformat json\n")
	out.WriteString("\t}\n")
}
