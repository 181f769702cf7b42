package fingerprint

import (
	"context"
	"crypto/sha1"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"

	"github.com/cloudflare/cfssl/crypto/pkcs7"

	cadisterrors "github.com/princespaghetti/cadist/internal/errors"
)

// Library computes fingerprints in-process. It reads PEM and DER
// certificate files, including PKCS#7 containers as shipped by some
// distributions.
type Library struct{}

// NewLibrary returns a Provider that needs no external tooling.
func NewLibrary() *Library {
	return &Library{}
}

// Fingerprint implements Provider.
func (l *Library) Fingerprint(_ context.Context, certPath string) (string, error) {
	data, err := os.ReadFile(certPath)
	if err != nil {
		return "", &cadisterrors.CadistError{Op: "fingerprint", Path: certPath, Err: err}
	}

	cert, err := decodeCertificate(data)
	if err != nil {
		return "", &cadisterrors.CadistError{Op: "fingerprint", Path: certPath, Err: err}
	}

	return Format(sha1.Sum(cert.Raw)), nil
}

// decodeCertificate parses the first certificate found in data. PEM input
// is unwrapped first; DER that fails plain X.509 parsing gets a second
// chance as a PKCS#7 container.
func decodeCertificate(data []byte) (*x509.Certificate, error) {
	if block, _ := pem.Decode(data); block != nil {
		if block.Type != "CERTIFICATE" {
			return nil, fmt.Errorf("unexpected PEM block type %q", block.Type)
		}
		data = block.Bytes
	}

	cert, err := x509.ParseCertificate(data)
	if err == nil {
		return cert, nil
	}

	p, pkcs7Err := pkcs7.ParsePKCS7(data)
	if pkcs7Err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, fmt.Errorf("no certificates in PKCS#7 container")
	}
	return p.Content.SignedData.Certificates[0], nil
}

// Format renders a SHA-1 digest as colon separated uppercase hex pairs.
func Format(sum [sha1.Size]byte) string {
	pairs := make([]string, sha1.Size)
	for i, b := range sum {
		pairs[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(pairs, ":")
}
