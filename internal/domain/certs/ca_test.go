package certs

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
)

func testPaths(t *testing.T) (certPath, keyPath string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "ca-cert.pem"), filepath.Join(dir, "ca-key.pem")
}

func TestNewCAManager_GeneratesNew(t *testing.T) {
	certPath, keyPath := testPaths(t)

	m, err := NewCAManager(certPath, keyPath)
	if err != nil {
		t.Fatalf("NewCAManager: %v", err)
	}

	if !fileExists(certPath) {
		t.Fatalf("cert file not created: %s", certPath)
	}
	if !fileExists(keyPath) {
		t.Fatalf("key file not created: %s", keyPath)
	}

	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatalf("stat key file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("key file perm = %o, want 0600", perm)
	}

	if !m.caCert.IsCA {
		t.Error("generated cert is not a CA")
	}
	if m.caCert.Subject.Organization[0] != organization {
		t.Errorf("org = %q, want %q", m.caCert.Subject.Organization[0], organization)
	}
}

func TestNewCAManager_LoadsExisting(t *testing.T) {
	certPath, keyPath := testPaths(t)

	m1, err := NewCAManager(certPath, keyPath)
	if err != nil {
		t.Fatalf("first NewCAManager: %v", err)
	}

	m2, err := NewCAManager(certPath, keyPath)
	if err != nil {
		t.Fatalf("second NewCAManager: %v", err)
	}

	if m1.caCert.SerialNumber.Cmp(m2.caCert.SerialNumber) != 0 {
		t.Errorf("serial mismatch: %s vs %s", m1.caCert.SerialNumber, m2.caCert.SerialNumber)
	}
}

func TestNewCAManager_InconsistentFiles(t *testing.T) {
	certPath, keyPath := testPaths(t)

	if err := os.MkdirAll(filepath.Dir(certPath), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(certPath, []byte("fake"), 0o644); err != nil {
		t.Fatalf("write cert: %v", err)
	}

	if _, err := NewCAManager(certPath, keyPath); err == nil {
		t.Fatal("expected error for inconsistent files, got nil")
	}
}

func TestGenerateCert_ValidLeaf(t *testing.T) {
	certPath, keyPath := testPaths(t)

	m, err := NewCAManager(certPath, keyPath)
	if err != nil {
		t.Fatalf("NewCAManager: %v", err)
	}

	cert, err := m.GenerateCert("example.com")
	if err != nil {
		t.Fatalf("GenerateCert: %v", err)
	}

	leaf := cert.Leaf
	if leaf == nil {
		t.Fatal("leaf cert is nil")
	}
	if leaf.Subject.CommonName != "example.com" {
		t.Errorf("CN = %q, want %q", leaf.Subject.CommonName, "example.com")
	}
	if len(leaf.DNSNames) != 1 || leaf.DNSNames[0] != "example.com" {
		t.Errorf("DNSNames = %v, want [example.com]", leaf.DNSNames)
	}
	if err := leaf.CheckSignatureFrom(m.caCert); err != nil {
		t.Errorf("CheckSignatureFrom CA: %v", err)
	}
	if len(cert.Certificate) != 2 {
		t.Errorf("chain length = %d, want 2 (leaf + CA)", len(cert.Certificate))
	}
}

func TestGenerateCert_TLSUsable(t *testing.T) {
	certPath, keyPath := testPaths(t)

	m, err := NewCAManager(certPath, keyPath)
	if err != nil {
		t.Fatalf("NewCAManager: %v", err)
	}

	domain := "localhost"
	leafCert, err := m.GenerateCert(domain)
	if err != nil {
		t.Fatalf("GenerateCert: %v", err)
	}

	serverTLS := &tls.Config{Certificates: []tls.Certificate{*leafCert}}
	ln, err := tls.Listen("tcp", "127.0.0.1:0", serverTLS)
	if err != nil {
		t.Fatalf("tls.Listen: %v", err)
	}
	defer ln.Close()

	serverErr := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			serverErr <- err
			return
		}
		defer conn.Close()
		if tlsConn, ok := conn.(*tls.Conn); ok {
			serverErr <- tlsConn.Handshake()
		} else {
			serverErr <- fmt.Errorf("not a TLS connection")
		}
	}()

	caPool := x509.NewCertPool()
	caPool.AddCert(m.caCert)
	clientTLS := &tls.Config{RootCAs: caPool, ServerName: domain}

	addr := ln.Addr().(*net.TCPAddr)
	conn, err := tls.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", addr.Port), clientTLS)
	if err != nil {
		t.Fatalf("tls.Dial: %v", err)
	}
	conn.Close()

	if sErr := <-serverErr; sErr != nil {
		t.Errorf("server handshake error: %v", sErr)
	}
}

func TestCACertPEM(t *testing.T) {
	certPath, keyPath := testPaths(t)

	m, err := NewCAManager(certPath, keyPath)
	if err != nil {
		t.Fatalf("NewCAManager: %v", err)
	}

	pemBytes := m.CACertPEM()
	if len(pemBytes) == 0 {
		t.Fatal("CACertPEM returned empty bytes")
	}

	block, _ := pem.Decode(pemBytes)
	if block == nil {
		t.Fatal("failed to decode PEM block")
	}
	if block.Type != "CERTIFICATE" {
		t.Errorf("PEM type = %q, want CERTIFICATE", block.Type)
	}
}
