package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"path/filepath"
	"time"
)

// GenerateCert issues a leaf certificate for domain, signed by the managed
// root CA, and writes it and its private key as <domain>.crt/<domain>.key in
// the directory that holds the CA certificate. It returns a ready-to-use tls.Certificate whose Leaf field is
// populated and whose Certificate chain includes the CA certificate.
func (m *CAManager) GenerateCert(domain string) (*tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate leaf key: %w", err)
	}

	serial, err := randomSerial()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: domain},
		DNSNames:     []string{domain},
		NotBefore:    now,
		NotAfter:     now.Add(leafValidity),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	leafDER, err := x509.CreateCertificate(rand.Reader, template, m.caCert, &key.PublicKey, m.caKey)
	if err != nil {
		return nil, fmt.Errorf("sign leaf cert for %s: %w", domain, err)
	}

	certsDir := filepath.Dir(m.certPath)
	certPath := filepath.Join(certsDir, domain+".crt")
	keyPath := filepath.Join(certsDir, domain+".key")

	if err := writePEM(certPath, "CERTIFICATE", leafDER, 0o644); err != nil {
		return nil, fmt.Errorf("write leaf cert: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshal leaf key: %w", err)
	}
	if err := writePEM(keyPath, "EC PRIVATE KEY", keyDER, 0o600); err != nil {
		return nil, fmt.Errorf("write leaf key: %w", err)
	}

	leaf, err := x509.ParseCertificate(leafDER)
	if err != nil {
		return nil, fmt.Errorf("parse generated leaf cert: %w", err)
	}

	return &tls.Certificate{
		Certificate: [][]byte{leafDER, m.caCert.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}, nil
}

// GenerateCertPaths issues a leaf certificate for domain and returns only
// the on-disk paths, matching the JSON-RPC generate_cert result shape.
func (m *CAManager) GenerateCertPaths(domain string) (certPath, keyPath string, err error) {
	if _, err := m.GenerateCert(domain); err != nil {
		return "", "", err
	}
	certsDir := filepath.Dir(m.certPath)
	return filepath.Join(certsDir, domain+".crt"), filepath.Join(certsDir, domain+".key"), nil
}
