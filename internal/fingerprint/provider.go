// Package fingerprint computes SHA-1 certificate fingerprints, either
// in-process or through an external OpenSSL binary.
package fingerprint

import "context"

// Provider computes the SHA-1 fingerprint of the first certificate stored
// in a file. Implementations return the digest as colon separated
// uppercase hex pairs, the notation used by CA descriptor files:
//
//	D1:EB:23:A4:6D:17:D6:8F:D9:25:64:C2:F1:F1:60:17:64:D8:E3:49
type Provider interface {
	Fingerprint(ctx context.Context, certPath string) (string, error)
}
