package check

import (
	"fmt"
	"strings"
)

// Findings collects the per-CA discrepancies of one reconciliation run.
// The buckets are not mutually exclusive: a CA can be recorded in more
// than one.
type Findings struct {
	MissingFromInstall     []string // in authoritative manifest, not installed
	ObsoletePresent        []string // installed but listed in the obsolete manifest
	VersionMismatch        []string // installed version differs from the manifest
	FingerprintMismatch    []string // computed fingerprint differs from the descriptor
	CertificateFileMissing []string // descriptor present, certificate payload absent
}

// Empty reports whether no discrepancy was recorded.
func (f *Findings) Empty() bool {
	return len(f.MissingFromInstall) == 0 &&
		len(f.ObsoletePresent) == 0 &&
		len(f.VersionMismatch) == 0 &&
		len(f.FingerprintMismatch) == 0 &&
		len(f.CertificateFileMissing) == 0
}

// bucket severities: absent or payload-less CAs are informational, the
// rest mean the installed trust store is wrong.
var buckets = []struct {
	label    string
	severity Severity
	aliases  func(*Findings) []string
}{
	{"CAs not yet installed", OK, func(f *Findings) []string { return f.MissingFromInstall }},
	{"obsolete CAs installed", Critical, func(f *Findings) []string { return f.ObsoletePresent }},
	{"CAs at wrong version", Critical, func(f *Findings) []string { return f.VersionMismatch }},
	{"CAs with fingerprint mismatch", Critical, func(f *Findings) []string { return f.FingerprintMismatch }},
	{"CAs without certificate file", OK, func(f *Findings) []string { return f.CertificateFileMissing }},
}

// report renders the non-empty buckets in fixed evaluation order into a
// combined verdict: worst severity, messages joined. An empty Findings
// reports a zero verdict.
func (f *Findings) report() Verdict {
	var v Verdict
	for _, b := range buckets {
		aliases := b.aliases(f)
		if len(aliases) == 0 {
			continue
		}
		v = v.Combine(Verdict{
			Severity: b.severity,
			Message:  fmt.Sprintf("%s: %s", b.label, strings.Join(aliases, ", ")),
		})
	}
	return v
}

// Verdict reduces the findings to the run's final verdict.
func (f *Findings) Verdict() Verdict {
	if f.Empty() {
		return Verdict{Severity: OK, Message: "CA distribution is correctly installed."}
	}
	return f.report()
}
