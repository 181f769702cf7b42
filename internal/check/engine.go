// Package check implements the CA distribution reconciliation engine: it
// loads the authoritative release metadata and package manifests, scans
// the locally installed CA store, verifies certificate fingerprints and
// reduces everything to a single monitoring verdict.
package check

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/princespaghetti/cadist/internal/castore"
	"github.com/princespaghetti/cadist/internal/catalog"
	cadisterrors "github.com/princespaghetti/cadist/internal/errors"
	"github.com/princespaghetti/cadist/internal/fetcher"
	"github.com/princespaghetti/cadist/internal/fingerprint"
)

// Config carries everything one reconciliation run needs.
type Config struct {
	// CADir is the directory holding *.info descriptors and their *.pem
	// certificate payloads.
	CADir string

	// Source alternatives for the authoritative metadata, each a URL or
	// local path, tried in order until one succeeds.
	ReleaseSources  []string
	ManifestSources []string
	ObsoleteSources []string

	// MaxSourceAge bounds the staleness of local file sources. Zero
	// means unlimited.
	MaxSourceAge time.Duration

	// WarningDays and CriticalDays are the grace thresholds for the
	// version age comparison.
	WarningDays  int
	CriticalDays int

	// Provider computes certificate fingerprints.
	Provider fingerprint.Provider

	// Client serves HTTP fetches. Nil means http.DefaultClient.
	Client fetcher.HTTPClient

	// Now returns the current time. Nil means time.Now; tests pin it.
	Now func() time.Time
}

// Engine performs reconciliation runs. It keeps no state between runs:
// identical inputs produce identical verdicts.
type Engine struct {
	cfg   Config
	fetch *fetcher.Fetcher
	now   func() time.Time
}

// New creates an Engine from cfg.
func New(cfg Config) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cfg:   cfg,
		fetch: fetcher.NewFetcher(cfg.Client),
		now:   now,
	}
}

// Run executes the probe and reduces the outcome to a single verdict.
func (e *Engine) Run(ctx context.Context) Verdict {
	release, err := e.loadRelease(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return aborted(ctxErr)
		}
		return Verdict{Severity: Unknown, Message: err.Error()}
	}
	zap.L().Sugar().Debugf("official release %s published %s", release.Version, release.Date.Format(time.RFC3339))

	authoritative := e.loadManifest(ctx, e.cfg.ManifestSources, "package manifest")
	obsolete := e.loadManifest(ctx, e.cfg.ObsoleteSources, "obsolete manifest")
	if ctxErr := ctx.Err(); ctxErr != nil {
		return aborted(ctxErr)
	}

	paths, err := castore.ListDescriptors(e.cfg.CADir)
	if err != nil {
		return Verdict{
			Severity: Critical,
			Message:  fmt.Sprintf("cannot scan CA directory %s, stopping analysis", e.cfg.CADir),
		}
	}

	var findings Findings
	matched := make(map[string]bool)
	versionChecked := false

	for _, path := range paths {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return aborted(ctxErr)
		}

		ca, err := castore.ParseDescriptor(path)
		if err != nil {
			if cadisterrors.IsError(err, cadisterrors.ErrDescriptorIncomplete) {
				zap.L().Sugar().Debugf("skipping malformed descriptor %s", path)
				continue
			}
			return findings.report().Combine(Verdict{
				Severity: Critical,
				Message:  fmt.Sprintf("cannot read descriptor %s, stopping analysis", path),
			})
		}

		authVersion, known := authoritative[ca.Alias]

		// The first descriptor with a usable alias fixes the installed
		// distribution version. Descriptors are visited in directory
		// order, so which CA that is depends on file naming.
		if !versionChecked && (authoritative == nil || known) {
			versionChecked = true
			if ca.Version != release.Version {
				zap.L().Sugar().Debugf("%s declares version %s, official release is %s", ca.Alias, ca.Version, release.Version)
				return CompareAge(ca.Version, release.Version, release.Date, e.now(), e.cfg.WarningDays, e.cfg.CriticalDays)
			}
		}

		if known {
			if ca.Version != authVersion {
				findings.VersionMismatch = append(findings.VersionMismatch, ca.Alias)
			}
			matched[ca.Alias] = true
		}

		if _, ok := obsolete[ca.Alias]; ok {
			findings.ObsoletePresent = append(findings.ObsoletePresent, ca.Alias)
			continue // obsolete CAs are never fingerprint-checked
		}

		if _, err := os.Stat(ca.CertificatePath); err != nil {
			findings.CertificateFileMissing = append(findings.CertificateFileMissing, ca.Alias)
			continue
		}

		computed, err := e.cfg.Provider.Fingerprint(ctx, ca.CertificatePath)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return aborted(ctxErr)
			}
			return findings.report().Combine(Verdict{
				Severity: Critical,
				Message:  fmt.Sprintf("cannot compute fingerprint for %s, stopping analysis", ca.CertificatePath),
			})
		}
		if computed != ca.Fingerprint {
			zap.L().Sugar().Debugf("%s: descriptor declares %s, certificate has %s", ca.Alias, ca.Fingerprint, computed)
			findings.FingerprintMismatch = append(findings.FingerprintMismatch, ca.Alias)
		}
	}

	// Authoritative entries nobody matched are not installed yet.
	if authoritative != nil {
		for alias := range authoritative {
			if !matched[alias] {
				findings.MissingFromInstall = append(findings.MissingFromInstall, alias)
			}
		}
		sort.Strings(findings.MissingFromInstall)
	}

	return findings.Verdict()
}

// loadRelease tries each release source in order and returns the first
// one that both fetches and parses. Exhausting all sources is fatal to
// the run: without the release metadata there is nothing to verify
// against.
func (e *Engine) loadRelease(ctx context.Context) (*catalog.Release, error) {
	if len(e.cfg.ReleaseSources) == 0 {
		return nil, fmt.Errorf("no release source configured")
	}

	for _, source := range e.cfg.ReleaseSources {
		data, err := e.fetch.Fetch(ctx, source, "release descriptor", e.cfg.MaxSourceAge)
		if err != nil {
			zap.L().Sugar().Debugf("release source %s: %v", source, err)
			continue
		}
		release, err := catalog.ParseRelease(data)
		if err != nil {
			zap.L().Sugar().Debugf("release source %s: %v", source, err)
			continue
		}
		return release, nil
	}

	return nil, fmt.Errorf("cannot obtain release metadata from %s", strings.Join(e.cfg.ReleaseSources, ", "))
}

// loadManifest tries each manifest source in order. Exhausting all
// sources is not fatal: the engine degrades by skipping the checks that
// depend on the missing manifest, so the return is nil rather than an
// error.
func (e *Engine) loadManifest(ctx context.Context, sources []string, label string) map[string]string {
	if len(sources) == 0 {
		return nil
	}

	for _, source := range sources {
		data, err := e.fetch.Fetch(ctx, source, label, e.cfg.MaxSourceAge)
		if err != nil {
			zap.L().Sugar().Debugf("%s source %s: %v", label, source, err)
			continue
		}
		pkgs := make(map[string]string)
		n := catalog.ParseManifest(data, pkgs)
		zap.L().Sugar().Debugf("%s: %d CA packages from %s", label, n, source)
		return pkgs
	}

	zap.L().Sugar().Warnf("no usable %s, skipping dependent checks", label)
	return nil
}

func aborted(err error) Verdict {
	return Verdict{
		Severity: Unknown,
		Message:  fmt.Sprintf("probe aborted: %v", err),
	}
}
