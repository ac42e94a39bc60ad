package cmd

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kakha13/localdomain/internal/domain/trust"
	"github.com/kakha13/localdomain/internal/platform"
)

var trustCACertPath string

var trustCACmd = &cobra.Command{
	Use:   "trust-ca",
	Short: "Manage the LocalDomain root CA in the system trust store",
	Long: `Install, remove, or verify the LocalDomain root CA certificate in the
OS trust store, so HTTPS clients trust locally-issued leaf certificates.

Supported platforms:
  - macOS:   Adds to System Keychain via the 'security' command
  - Linux:   Copies to /usr/local/share/ca-certificates/ and runs
             update-ca-certificates
  - Windows: Uses certutil -addstore Root

Examples:
  localdomain trust-ca install
  localdomain trust-ca install --cert /path/to/custom-ca.pem
  localdomain trust-ca remove
  localdomain trust-ca verify`,
}

var trustCAInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the CA certificate into the system trust store",
	RunE:  runTrustCAInstall,
}

var trustCARemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the CA certificate from the system trust store",
	RunE:  runTrustCARemove,
}

var trustCAVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check whether the CA certificate is trusted by the system",
	RunE:  runTrustCAVerify,
}

func init() {
	trustCACmd.PersistentFlags().StringVar(&trustCACertPath, "cert", "", "path to CA certificate PEM file (default: platform CA cert path)")
	trustCACmd.AddCommand(trustCAInstallCmd, trustCARemoveCmd, trustCAVerifyCmd)
	rootCmd.AddCommand(trustCACmd)
}

func resolveCACertPath() (string, error) {
	if trustCACertPath != "" {
		if _, err := os.Stat(trustCACertPath); err != nil {
			return "", fmt.Errorf("certificate not found: %s", trustCACertPath)
		}
		return trustCACertPath, nil
	}

	if _, err := os.Stat(platform.CACertFile); err != nil {
		return "", fmt.Errorf("CA certificate not found at %s\nstart the daemon first to generate it, or use --cert to specify a path", platform.CACertFile)
	}
	return platform.CACertFile, nil
}

func printCertInfo(cmd *cobra.Command, certPath string) error {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return fmt.Errorf("read certificate: %w", err)
	}
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return fmt.Errorf("decode PEM: file does not contain valid PEM data")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return fmt.Errorf("parse certificate: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Certificate: %s\n", certPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subject:     %s\n", cert.Subject.CommonName)
	fmt.Fprintf(cmd.OutOrStdout(), "SHA-256:     %s\n\n", sha256Fingerprint(cert.Raw))
	return nil
}

func sha256Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	hexStr := hex.EncodeToString(sum[:])
	parts := make([]string, 0, 32)
	for i := 0; i < len(hexStr); i += 2 {
		parts = append(parts, strings.ToUpper(hexStr[i:i+2]))
	}
	return strings.Join(parts, ":")
}

func runTrustCAInstall(cmd *cobra.Command, args []string) error {
	certPath, err := resolveCACertPath()
	if err != nil {
		return err
	}
	if err := printCertInfo(cmd, certPath); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Installing CA certificate into the system trust store...")
	if err := trust.Install(certPath); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "CA certificate installed successfully.")
	return nil
}

func runTrustCARemove(cmd *cobra.Command, args []string) error {
	certPath, err := resolveCACertPath()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Removing CA certificate from the system trust store...")
	if err := trust.Remove(certPath); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "CA certificate removed.")
	return nil
}

func runTrustCAVerify(cmd *cobra.Command, args []string) error {
	if trust.Verify() {
		fmt.Fprintln(cmd.OutOrStdout(), "CA certificate is trusted by the system.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "CA certificate is NOT trusted by the system.")
	return nil
}
