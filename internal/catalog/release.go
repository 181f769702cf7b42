// Package catalog parses the authoritative CA distribution metadata: the
// release descriptor and the flat package manifests published alongside it.
package catalog

import (
	"fmt"
	"regexp"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"

	cadisterrors "github.com/princespaghetti/cadist/internal/errors"
)

// Release describes the officially published CA distribution.
type Release struct {
	Version string    // MAJOR.MINOR, packaging revision stripped
	Date    time.Time // publish date
}

// releaseDoc mirrors the YAML layout of the release descriptor:
//
//	release:
//	  version: "1.37-2"
//	  date: 2025-08-12 14:02:11
type releaseDoc struct {
	Release *releaseFields `yaml:"release"`
}

type releaseFields struct {
	Version string `yaml:"version"`
	Date    string `yaml:"date"`
}

// releaseVersionRE matches the published MAJOR.MINOR-REVISION version shape.
var releaseVersionRE = regexp.MustCompile(`^(\d+\.\d+)-\d+$`)

// ParseRelease parses a release descriptor document. The declared version
// must have the shape MAJOR.MINOR-REVISION; only MAJOR.MINOR is retained.
// The date field accepts any commonly used date/time layout.
func ParseRelease(data []byte) (*Release, error) {
	var doc releaseDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &cadisterrors.CadistError{
			Op:  "parse release descriptor",
			Err: err,
		}
	}

	if doc.Release == nil {
		return nil, &cadisterrors.CadistError{
			Op:  "parse release descriptor",
			Err: fmt.Errorf("missing release section"),
		}
	}
	if doc.Release.Version == "" {
		return nil, &cadisterrors.CadistError{
			Op:  "parse release descriptor",
			Err: fmt.Errorf("missing version field"),
		}
	}
	if doc.Release.Date == "" {
		return nil, &cadisterrors.CadistError{
			Op:  "parse release descriptor",
			Err: fmt.Errorf("missing date field"),
		}
	}

	m := releaseVersionRE.FindStringSubmatch(doc.Release.Version)
	if m == nil {
		return nil, &cadisterrors.CadistError{
			Op:  "parse release descriptor",
			Err: fmt.Errorf("version %q does not match MAJOR.MINOR-REVISION", doc.Release.Version),
		}
	}

	date, err := dateparse.ParseAny(doc.Release.Date)
	if err != nil {
		return nil, &cadisterrors.CadistError{
			Op:  "parse release descriptor",
			Err: fmt.Errorf("date %q: %w", doc.Release.Date, err),
		}
	}

	return &Release{
		Version: m[1],
		Date:    date,
	}, nil
}
