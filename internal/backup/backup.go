package backup

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/mcpbridge/internal/paths"
	"github.com/thoreinstein/mcpbridge/pkg/fileutil"
)

// Version is recorded in each manifest. The CLI sets it to the build version.
var Version = "dev"

const (
	manifestName = "manifest.json"
	idLayout     = "20060102T150405"
)

// Manager handles backup creation, restoration, and management.
type Manager struct {
	rootDir        string
	retentionCount int
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups kept by [Manager.Backup].
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup copies the file at path into a new backup and prunes backups
// beyond the retention count. It returns a nil manifest and no error when
// path does not exist, since there is nothing to lose.
func (m *Manager) Backup(path string) (*Manifest, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	src, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.Newf("%s is a directory", path)
	}

	created := m.now().UTC()
	id, dir, err := m.newBackupDir(created)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(src)
	hash, mode, err := copyFile(src, filepath.Join(dir, name))
	if err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrapf(err, "backing up %s", path)
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   created,
		Source:      src,
		FileName:    name,
		SHA256Hash:  hash,
		Mode:        mode,
		ToolVersion: Version,
		ID:          id,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding manifest")
	}
	if err := fileutil.AtomicWriteFile(filepath.Join(dir, manifestName), data, 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(m.retentionCount); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

// newBackupDir creates the directory for a backup taken at t. Backups taken
// within the same second get a numeric suffix.
func (m *Manager) newBackupDir(t time.Time) (id, dir string, err error) {
	if err := paths.EnsureDir(m.rootDir, 0); err != nil {
		return "", "", errors.Wrap(err, "creating backup directory")
	}

	base := t.Format(idLayout)
	id = base
	for i := 1; ; i++ {
		dir = filepath.Join(m.rootDir, id)
		err := os.Mkdir(dir, 0o700)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
}

// Restore writes the file saved by backup id back to its original location,
// with its original permissions.
func (m *Manager) Restore(id string) (*Manifest, error) {
	manifest, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	src := filepath.Join(m.rootDir, id, manifest.FileName)
	hash, err := hashFile(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading backup %s", id)
	}
	if hash != manifest.SHA256Hash {
		return nil, errors.Wrapf(ErrBackupCorrupted, "backup %s hash mismatch", id)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading backup %s", id)
	}
	if err := paths.EnsureDir(filepath.Dir(manifest.Source), 0); err != nil {
		return nil, errors.Wrapf(err, "creating directory for %s", manifest.Source)
	}
	if err := fileutil.AtomicWriteFile(manifest.Source, data, manifest.Mode.Perm()); err != nil {
		return nil, errors.Wrapf(err, "restoring %s", manifest.Source)
	}
	return manifest, nil
}

// List returns all available backups, newest first.
func (m *Manager) List() ([]Manifest, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(entry.Name())
		if err != nil {
			// Skip invalid backup directories
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		// IDs with a collision suffix are newer than their base.
		if c := cmp.Compare(len(b.ID), len(a.ID)); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return manifests, nil
}

// Prune removes all but the newest keep backups.
func (m *Manager) Prune(keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(filepath.Join(m.rootDir, manifests[i].ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
	}
	return nil
}

// Get returns the manifest of backup id.
func (m *Manager) Get(id string) (*Manifest, error) {
	if id == "" || id != filepath.Base(id) {
		return nil, errors.Newf("invalid backup ID %q", id)
	}

	data, err := os.ReadFile(filepath.Join(m.rootDir, id, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}

	manifest.ID = id
	return &manifest, nil
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies a file from src to dst, returning the SHA256 hash and mode.
// The copy is private to the user regardless of the source's permissions.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	// Compute hash while copying
	h := sha256.New()
	w := io.MultiWriter(dstFile, h)

	if _, err := io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}
