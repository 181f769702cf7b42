package castore

import (
	"bufio"
	"os"
	"strings"

	cadisterrors "github.com/princespaghetti/cadist/internal/errors"
)

// Descriptor keys recognized in *.info files. Anything else is ignored.
const (
	keyAlias       = "alias"
	keyVersion     = "version"
	keyFingerprint = "sha1fp.0"
)

// ParseDescriptor reads a single descriptor file and returns the CA it
// records. Descriptors are line-oriented "key = value" text; whitespace
// around the separator is tolerated and the fingerprint is normalized to
// uppercase. A descriptor missing any of alias, version or fingerprint
// fails with ErrDescriptorIncomplete so callers can skip it, while I/O
// failures surface as ordinary errors.
func ParseDescriptor(path string) (*CA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &cadisterrors.CadistError{
			Op:   "open descriptor",
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	ca := &CA{
		DescriptorPath:  path,
		CertificatePath: strings.TrimSuffix(path, ".info") + ".pem",
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case keyAlias:
			ca.Alias = strings.TrimSpace(value)
		case keyVersion:
			ca.Version = strings.TrimSpace(value)
		case keyFingerprint:
			ca.Fingerprint = strings.ToUpper(strings.TrimSpace(value))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &cadisterrors.CadistError{
			Op:   "read descriptor",
			Path: path,
			Err:  err,
		}
	}

	if ca.Alias == "" || ca.Version == "" || ca.Fingerprint == "" {
		return nil, &cadisterrors.CadistError{
			Op:   "parse descriptor",
			Path: path,
			Err:  cadisterrors.ErrDescriptorIncomplete,
		}
	}

	return ca, nil
}
