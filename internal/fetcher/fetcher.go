// Package fetcher retrieves release and manifest resources for cadist.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	cadisterrors "github.com/princespaghetti/cadist/internal/errors"
)

// userAgent identifies cadist to the distribution mirrors.
const userAgent = "cadist/1.0 (CA distribution probe)"

// Fetcher retrieves a resource from an HTTP(S) URL or a local file path.
type Fetcher struct {
	client HTTPClient
}

// NewFetcher creates a new Fetcher with the given HTTP client.
// If client is nil, uses http.DefaultClient.
func NewFetcher(client HTTPClient) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client: client,
	}
}

// IsURL reports whether source is an HTTP or HTTPS URL rather than a
// filesystem path.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch retrieves the named resource. A single attempt is made: no retries,
// no backoff. The label appears in error messages ("release descriptor",
// "package manifest", ...). For local paths a non-zero maxAge rejects files
// whose modification time is older than the threshold without reading them.
func (f *Fetcher) Fetch(ctx context.Context, source, label string, maxAge time.Duration) ([]byte, error) {
	if IsURL(source) {
		return f.fetchURL(ctx, source, label)
	}
	return f.readFile(source, label, maxAge)
}

// fetchURL issues one GET for the resource.
func (f *Fetcher) fetchURL(ctx context.Context, url, label string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &cadisterrors.CadistError{
			Op:   "fetch " + label,
			Path: url,
			Err:  fmt.Errorf("create request: %w", err),
		}
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &cadisterrors.CadistError{
			Op:   "fetch " + label,
			Path: url,
			Err:  err,
		}
	}
	defer func() { _ = resp.Body.Close() }() // Ignore close error - standard practice

	if resp.StatusCode != http.StatusOK {
		return nil, &cadisterrors.CadistError{
			Op:   "fetch " + label,
			Path: url,
			Err:  fmt.Errorf("unexpected response: %s", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &cadisterrors.CadistError{
			Op:   "fetch " + label,
			Path: url,
			Err:  fmt.Errorf("read response: %w", err),
		}
	}

	zap.L().Sugar().Debugf("fetched %s from %s (%d bytes)", label, url, len(data))
	return data, nil
}

// readFile reads the resource from the local filesystem. The file must exist
// and, when maxAge is non-zero, must have been modified within maxAge.
func (f *Fetcher) readFile(path, label string, maxAge time.Duration) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = cadisterrors.ErrNotFound
		}
		return nil, &cadisterrors.CadistError{
			Op:   "read " + label,
			Path: path,
			Err:  err,
		}
	}

	if maxAge > 0 {
		if age := time.Since(info.ModTime()); age > maxAge {
			return nil, &cadisterrors.CadistError{
				Op:   "read " + label,
				Path: path,
				Err:  fmt.Errorf("%w (age %s, limit %s)", cadisterrors.ErrStaleSource, age.Round(time.Second), maxAge),
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &cadisterrors.CadistError{
			Op:   "read " + label,
			Path: path,
			Err:  err,
		}
	}

	zap.L().Sugar().Debugf("read %s from %s (%d bytes)", label, path, len(data))
	return data, nil
}
