package certificate

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

// Parsed is what the admin reads out of certificate material.
type Parsed struct {
	Domain   string
	NotAfter time.Time
}

// ParseCertificate reads the leaf certificate of a PEM bundle. The domain
// is the first DNS name, or the common name when there are none.
func ParseCertificate(certPEM []byte) (Parsed, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		return Parsed{}, errors.New("no PEM certificate found")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return Parsed{}, fmt.Errorf("failed to parse certificate: %w", err)
	}

	p := Parsed{Domain: cert.Subject.CommonName, NotAfter: cert.NotAfter}
	if len(cert.DNSNames) > 0 {
		p.Domain = cert.DNSNames[0]
	}
	return p, nil
}

// ParseMaterial validates an uploaded certificate and key and checks that
// they belong together.
func ParseMaterial(certPEM, keyPEM []byte) (Parsed, error) {
	p, err := ParseCertificate(certPEM)
	if err != nil {
		return Parsed{}, errs.Validation(errs.InvalidInput, "cert", err.Error())
	}
	if _, err := tls.X509KeyPair(certPEM, keyPEM); err != nil {
		return Parsed{}, errs.Validation(errs.InvalidInput, "key", err.Error())
	}
	return p, nil
}

// Files stores certificate material as <dir>/<name>.crt and <dir>/<name>.key.
type Files struct {
	dir string
}

// NewFiles returns Files rooted at dir.
func NewFiles(dir string) *Files {
	return &Files{dir: dir}
}

// Write stores a bundle under name. The key is readable by the owner only.
// Nothing is left behind when writing fails.
func (f *Files) Write(name string, b cloud.Bundle) (entities.TLSBinding, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil { //nolint:gosec
		return entities.TLSBinding{}, fmt.Errorf("failed to create certificate directory: %w", err)
	}

	binding := entities.TLSBinding{
		CertPath: filepath.Join(f.dir, name+".crt"),
		KeyPath:  filepath.Join(f.dir, name+".key"),
	}

	if err := os.WriteFile(binding.CertPath, b.Cert, 0o644); err != nil { //nolint:gosec
		return entities.TLSBinding{}, fmt.Errorf("failed to write certificate file: %w", err)
	}
	if err := os.WriteFile(binding.KeyPath, b.Key, 0o600); err != nil {
		os.Remove(binding.CertPath) //nolint:errcheck,gosec
		return entities.TLSBinding{}, fmt.Errorf("failed to write key file: %w", err)
	}
	return binding, nil
}

// Remove deletes the files of a binding. Missing files are ignored.
func (f *Files) Remove(b entities.TLSBinding) error {
	var all []error
	for _, p := range []string{b.CertPath, b.KeyPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}
