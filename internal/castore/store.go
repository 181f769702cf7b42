// Package castore reads the locally installed CA store: a directory of
// descriptor files, one per CA, each recording the CA's alias, installed
// version and expected certificate fingerprint alongside the certificate
// payload itself.
package castore

import (
	"os"
	"path/filepath"
	"strings"

	cadisterrors "github.com/princespaghetti/cadist/internal/errors"
)

// CA describes one installed CA as recorded by its descriptor file.
type CA struct {
	Alias           string // CA name, unique within the store
	Version         string // distribution version the CA was installed from
	Fingerprint     string // expected SHA-1 fingerprint, uppercase colon-hex
	DescriptorPath  string
	CertificatePath string // descriptor path with .info swapped for .pem
}

// ListDescriptors returns the paths of all descriptor files (suffix
// ".info") in dir, in directory-listing order. Which CA a scan visits
// first therefore depends on file naming, which callers relying on
// first-match behavior need to keep in mind.
func ListDescriptors(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &cadisterrors.CadistError{
			Op:   "scan CA directory",
			Path: dir,
			Err:  err,
		}
	}

	var paths []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".info") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	return paths, nil
}
