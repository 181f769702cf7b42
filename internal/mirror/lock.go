package mirror

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// DirLock serializes mirror runs against one destination directory so
// two concurrent runs cannot interleave their downloads.
type DirLock struct {
	lock *flock.Flock
}

// NewDirLock creates a lock for destDir. The lock file lives inside the
// directory as ".cadist-mirror.lock".
func NewDirLock(destDir string) *DirLock {
	return &DirLock{
		lock: flock.New(filepath.Join(destDir, ".cadist-mirror.lock")),
	}
}

// Lock acquires the lock, retrying every 100ms until the context is
// cancelled.
func (l *DirLock) Lock(ctx context.Context) error {
	locked, err := l.lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquire mirror lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire mirror lock: timeout")
	}
	return nil
}

// Unlock releases the lock.
func (l *DirLock) Unlock() error {
	return l.lock.Unlock()
}
