package fingerprint

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	cadisterrors "github.com/princespaghetti/cadist/internal/errors"
)

// OpenSSL computes fingerprints by invoking an external openssl binary.
// It covers hosts whose certificate stores carry encodings the in-process
// decoder cannot read, and doubles as a cross-check for the native path.
type OpenSSL struct {
	path string
}

// NewOpenSSL returns a Provider that shells out to the given binary.
// An empty path means "openssl" resolved through PATH.
func NewOpenSSL(path string) *OpenSSL {
	if path == "" {
		path = "openssl"
	}
	return &OpenSSL{path: path}
}

// Fingerprint implements Provider. It runs
//
//	openssl x509 -noout -fingerprint -sha1 -in <certPath>
//
// and extracts the digest from the tool's output.
func (o *OpenSSL) Fingerprint(ctx context.Context, certPath string) (string, error) {
	cmd := exec.CommandContext(ctx, o.path, "x509", "-noout", "-fingerprint", "-sha1", "-in", certPath)
	out, err := cmd.Output()
	if err != nil {
		return "", &cadisterrors.CadistError{
			Op:   "fingerprint",
			Path: certPath,
			Err:  fmt.Errorf("run %s: %w", o.path, err),
		}
	}

	fp, err := parseOpenSSLOutput(string(out))
	if err != nil {
		return "", &cadisterrors.CadistError{Op: "fingerprint", Path: certPath, Err: err}
	}
	return fp, nil
}

// parseOpenSSLOutput extracts the digest from output such as
// "SHA1 Fingerprint=D1:EB:...". The label casing varies between OpenSSL
// builds, so the match is case-insensitive.
func parseOpenSSLOutput(out string) (string, error) {
	const label = "fingerprint="
	for _, line := range strings.Split(out, "\n") {
		idx := strings.Index(strings.ToLower(line), label)
		if idx < 0 {
			continue
		}
		fp := strings.TrimSpace(line[idx+len(label):])
		if fp == "" {
			break
		}
		return strings.ToUpper(fp), nil
	}
	return "", fmt.Errorf("%w: %q", cadisterrors.ErrUnparsableFingerprint, strings.TrimSpace(out))
}
