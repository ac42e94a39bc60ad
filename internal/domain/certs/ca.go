// Package certs manages LocalDomain's private root CA and the per-domain
// leaf certificates it signs.
package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"time"
)

const (
	caCommonName = "LocalDomain Root CA"
	organization = "LocalDomain"
	caValidity   = 10 * 365 * 24 * time.Hour
	leafValidity = 365 * 24 * time.Hour
)

// CAManager owns the root CA keypair and issues leaf certificates signed by
// it. It is safe to construct multiple times against the same cert/key
// paths: subsequent constructions load the existing CA instead of
// regenerating it.
type CAManager struct {
	certPath string
	keyPath  string

	caCert *x509.Certificate
	caKey  *ecdsa.PrivateKey
}

// NewCAManager loads the CA at certPath/keyPath, generating a fresh
// self-signed root CA if neither file exists yet. It returns an error if
// exactly one of the two files exists (inconsistent state).
func NewCAManager(certPath, keyPath string) (*CAManager, error) {
	certExists := fileExists(certPath)
	keyExists := fileExists(keyPath)

	if certExists != keyExists {
		return nil, fmt.Errorf("inconsistent CA state: cert present=%v, key present=%v", certExists, keyExists)
	}

	if !certExists {
		if err := generateCA(certPath, keyPath); err != nil {
			return nil, fmt.Errorf("generate ca: %w", err)
		}
	}

	cert, key, err := loadCA(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("load ca: %w", err)
	}

	return &CAManager{certPath: certPath, keyPath: keyPath, caCert: cert, caKey: key}, nil
}

// CACertPath returns the path of the root CA certificate on disk.
func (m *CAManager) CACertPath() string { return m.certPath }

// CACertPEM returns the root CA certificate PEM-encoded.
func (m *CAManager) CACertPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: m.caCert.Raw})
}

func generateCA(certPath, keyPath string) error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate ca key: %w", err)
	}

	serial, err := randomSerial()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   caCommonName,
			Organization: []string{organization},
		},
		NotBefore:             now,
		NotAfter:              now.Add(caValidity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return fmt.Errorf("self-sign ca cert: %w", err)
	}

	if err := writePEM(certPath, "CERTIFICATE", certDER, 0o644); err != nil {
		return fmt.Errorf("write ca cert: %w", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return fmt.Errorf("marshal ca key: %w", err)
	}
	if err := writePEM(keyPath, "EC PRIVATE KEY", keyDER, 0o600); err != nil {
		return fmt.Errorf("write ca key: %w", err)
	}

	return nil
}

func loadCA(certPath, keyPath string) (*x509.Certificate, *ecdsa.PrivateKey, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read ca cert: %w", err)
	}
	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil {
		return nil, nil, fmt.Errorf("invalid ca cert PEM at %s", certPath)
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("parse ca cert: %w", err)
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read ca key: %w", err)
	}
	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, nil, fmt.Errorf("invalid ca key PEM at %s", keyPath)
	}
	key, err := x509.ParseECPrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("parse ca key: %w", err)
	}

	return cert, key, nil
}

func randomSerial() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return nil, fmt.Errorf("generate serial: %w", err)
	}
	return serial, nil
}

func writePEM(path, blockType string, der []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer f.Close()
	return pem.Encode(f, &pem.Block{Type: blockType, Bytes: der})
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
