// Package mirror implements the bulk downloader that replicates CA
// distribution files into a local directory, typically to feed an
// internal mirror that probe runs then check against.
package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	cadisterrors "github.com/princespaghetti/cadist/internal/errors"
	"github.com/princespaghetti/cadist/internal/fetcher"
)

// Mirror downloads sets of URLs with a pool of workers.
type Mirror struct {
	client  fetcher.HTTPClient
	workers int
}

// New creates a Mirror. A nil client means http.DefaultClient; workers
// below one are raised to one.
func New(client fetcher.HTTPClient, workers int) *Mirror {
	if client == nil {
		client = http.DefaultClient
	}
	if workers < 1 {
		workers = 1
	}
	return &Mirror{client: client, workers: workers}
}

// Fetch downloads every URL into destDir, naming each file after the
// last URL path element. The destination directory is locked for the
// duration of the run. A single progress bar on stderr tracks files
// completed; individual failures are logged and counted but do not stop
// the other downloads. The returned count is the number of failed
// downloads; the error covers setup faults only.
func (m *Mirror) Fetch(ctx context.Context, urls []string, destDir string) (int, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, &cadisterrors.CadistError{
			Op:   "create mirror directory",
			Path: destDir,
			Err:  err,
		}
	}

	lock := NewDirLock(destDir)
	if err := lock.Lock(ctx); err != nil {
		return 0, err
	}
	defer lock.Unlock()

	logger := zap.L().Sugar()

	total := len(urls)
	jobs := make(chan string, total)
	var wg sync.WaitGroup
	var failed atomic.Int64

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetDescription("mirroring"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	for i := 0; i < m.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				name := path.Base(url)
				bar.Describe(fmt.Sprintf("mirroring %s", name))

				if err := m.download(ctx, url, filepath.Join(destDir, name)); err != nil {
					logger.Errorf("mirror %s: %v", url, err)
					failed.Add(1)
				}
				bar.Add(1)
			}
		}()
	}

	for _, u := range urls {
		jobs <- u
	}
	close(jobs)

	wg.Wait()
	bar.Finish()

	return int(failed.Load()), nil
}

// download fetches one URL into destPath, writing through a temp file so
// an interrupted transfer never leaves a half-written mirror entry. The
// temp name is unique per download: two URLs sharing a basename must not
// write through the same intermediate file.
func (m *Mirror) download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response: %s", resp.Status)
	}

	out, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+"-*.tmp")
	if err != nil {
		return err
	}
	tempPath := out.Name()
	if err := out.Chmod(0o644); err != nil {
		out.Close()
		os.Remove(tempPath)
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tempPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	return os.Rename(tempPath, destPath)
}
