// Package configfile provides the durable-store primitives every tool
// adapter and the user-config store build on: structured read/write of
// JSON, YAML, TOML and JSON5 files with fail-safe corruption handling.
//
// Contract shared by every format:
//   - reading a missing or empty file yields an empty document, no error
//   - a parse failure first copies the original bytes to a timestamped
//     sibling backup, then fails with a *CorruptError naming the backup;
//     the original file is never touched
//   - writes create parent directories and go through a temp file plus
//     rename, so a crash mid-write cannot leave a half-written config
package configfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Doc is a parsed config document. All formats decode into the same
// shape so adapters can share merge helpers.
type Doc = map[string]interface{}

// CorruptError reports an unparseable config file. BackupPath is empty
// when the best-effort backup could not be written.
type CorruptError struct {
	Path       string
	BackupPath string
	Err        error
}

func (e *CorruptError) Error() string {
	if e.BackupPath != "" {
		return fmt.Sprintf("corrupt config file %s (original preserved at %s): %v", e.Path, e.BackupPath, e.Err)
	}
	return fmt.Sprintf("corrupt config file %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// backupCorrupt writes the raw bytes of a corrupt file to
// <path>.corrupt-<epoch-ms>.bak. Failure to write the backup is
// swallowed; the returned path is empty in that case.
func backupCorrupt(path string, data []byte) string {
	backup := fmt.Sprintf("%s.corrupt-%d.bak", path, time.Now().UnixMilli())
	if err := os.WriteFile(backup, data, 0600); err != nil {
		return ""
	}
	return backup
}

// readRaw loads a file for parsing. A missing or empty file reports
// ok=false, which callers translate to an empty document.
func readRaw(path string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

// atomicWrite replaces path via a temp file in the same directory,
// creating parent directories as needed.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
