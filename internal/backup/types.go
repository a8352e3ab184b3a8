package backup

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultRetentionCount is the number of backups kept by default.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backup exists, or none with the
	// requested ID.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates the stored copy no longer matches the
	// hash recorded in its manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest describes one backup. It is stored as manifest.json next to the
// copied file.
type Manifest struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// CreatedAt is when the backup was created.
	CreatedAt time.Time `json:"created_at"`

	// Source is the absolute path of the config file that was copied.
	Source string `json:"source"`

	// FileName is the name of the copy inside the backup directory.
	FileName string `json:"file_name"`

	// SHA256Hash is the hex-encoded SHA256 hash of the file contents.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the file's permission bits.
	Mode fs.FileMode `json:"mode"`

	// ToolVersion is the version of mcpbridge that created the backup.
	ToolVersion string `json:"mcpbridge_version"`

	// ID is the backup identifier (timestamp format: 20260123T100712).
	// It is the directory name and is not stored in JSON.
	ID string `json:"-"`
}
