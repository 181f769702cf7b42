package catalog

import (
	"regexp"
	"strings"
)

// packageRE matches CA package identifiers of the form
// ca_NAME-VERSION-REVISION. VERSION and REVISION never contain hyphens,
// so the last two hyphen-separated fields are unambiguous even when the
// CA name itself is hyphenated.
var packageRE = regexp.MustCompile(`^ca_(.+)-([^-]+)-([^-]+)$`)

// ParseManifest scans line-oriented manifest content and records every CA
// package entry in pkgs, mapping CA name to package version. Entries whose
// name begins with "policy" describe trust policy metadata rather than
// certificates and are skipped. Lines that do not look like a CA package
// are ignored, so manifests interleaved with other content parse cleanly.
//
// Callers accumulate several manifests into one map by passing the same
// map to successive calls. The return value is the number of entries
// recorded from this manifest.
func ParseManifest(data []byte, pkgs map[string]string) int {
	recorded := 0
	for _, line := range strings.Split(string(data), "\n") {
		m := packageRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		name, version := m[1], m[2]
		if strings.HasPrefix(name, "policy") {
			continue
		}
		pkgs[name] = version
		recorded++
	}
	return recorded
}
