package configfile

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// StaleLockAge is how old a lock file must be before another process
// may break it. Commands finish in well under this.
const StaleLockAge = 30 * time.Second

// Lock is a best-effort advisory lock guarding a config file against
// two concurrent coderlink invocations. It is advisory only: external
// tools editing their own files are not expected to honor it.
type Lock struct {
	path  string
	token string
}

// AcquireLock creates <path>.lock exclusively. A lock file older than
// StaleLockAge is treated as left behind by a crashed process and
// broken.
func AcquireLock(path string) (*Lock, error) {
	lockPath := path + ".lock"
	token := uuid.NewString()
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			fmt.Fprintf(f, "%s %d\n", token, os.Getpid())
			f.Close()
			return &Lock{path: lockPath, token: token}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
		}
		info, statErr := os.Stat(lockPath)
		if statErr == nil && time.Since(info.ModTime()) > StaleLockAge {
			slog.Warn("breaking stale config lock", "path", lockPath, "age", time.Since(info.ModTime()))
			os.Remove(lockPath)
			continue
		}
		return nil, fmt.Errorf("config file %s is locked by another coderlink process (remove %s if stale)", path, lockPath)
	}
	return nil, fmt.Errorf("acquire lock %s: still held", lockPath)
}

// Release removes the lock file. Safe to call more than once.
func (l *Lock) Release() {
	if l == nil || l.path == "" {
		return
	}
	os.Remove(l.path)
	l.path = ""
}
