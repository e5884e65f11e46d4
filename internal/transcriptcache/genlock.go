package transcriptcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"lingocast/internal/episode"
)

const generationLockRetry = 250 * time.Millisecond

// fileLocks serializes generation of one episode across processes.
type fileLocks struct {
	dir string
}

func (l fileLocks) acquire(ctx context.Context, key episode.Key) (func(), error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(l.dir, key.String()+".lock"))
	ok, err := lock.TryLockContext(ctx, generationLockRetry)
	if err != nil {
		return nil, fmt.Errorf("acquire generation lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire generation lock: %s is busy", key)
	}
	return func() { _ = lock.Unlock() }, nil
}
