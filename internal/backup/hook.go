package backup

import (
	"path/filepath"
	"sync"

	"github.com/thoreinstein/mcpbridge/internal/errors"
)

// backupOnce tracks per-file backup state within a process.
// This prevents redundant backups when multiple edits occur.
var (
	backupOnce  = make(map[string]*sync.Once)
	backupMutex sync.Mutex
)

// EnsureBackedUp backs up the file at path before it is modified. Only the
// first call for a given file in a process takes a backup; later calls are
// no-ops. A failed backup is retried by the next call.
//
// The backup goes to paths.BackupDir unless opts say otherwise.
func EnsureBackedUp(path string, opts ...Option) error {
	if path == "" {
		return nil
	}
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}

	backupMutex.Lock()
	once, exists := backupOnce[key]
	if !exists {
		once = &sync.Once{}
		backupOnce[key] = once
	}
	backupMutex.Unlock()

	var backupErr error
	once.Do(func() {
		_, backupErr = NewManager(opts...).Backup(path)
		if backupErr != nil {
			// Reset the Once so the caller can retry
			backupMutex.Lock()
			delete(backupOnce, key)
			backupMutex.Unlock()
		}
	})

	if backupErr != nil {
		return errors.Wrapf(backupErr, "backing up %s", path)
	}
	return nil
}

// ResetBackupState forgets which files were backed up in this process.
// This is primarily useful for testing.
func ResetBackupState() {
	backupMutex.Lock()
	defer backupMutex.Unlock()
	backupOnce = make(map[string]*sync.Once)
}
