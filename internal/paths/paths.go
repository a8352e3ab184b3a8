package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppDir is the directory name used under the XDG base directories.
const AppDir = "mcpbridge"

// ConfigDirEnv overrides the configuration directory when set.
const ConfigDirEnv = "MCPBRIDGE_CONFIG_DIR"

// StateDirEnv overrides the state directory when set.
const StateDirEnv = "MCPBRIDGE_STATE_DIR"

// DefaultConfigName is the file created when no config file exists yet.
const DefaultConfigName = "config.yaml"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ExpandHome replaces a leading "~" or "~/" with the home directory.
// Other paths are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the directory searched for the config file:
// $MCPBRIDGE_CONFIG_DIR when set, otherwise <ConfigHome>/mcpbridge.
func ConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppDir)
}

// DefaultConfigFile returns the path new server entries are written to when
// no config file was found.
func DefaultConfigFile() string {
	return filepath.Join(ConfigDir(), DefaultConfigName)
}

// StateDir returns the directory for data mcpbridge generates itself, such
// as config backups: $MCPBRIDGE_STATE_DIR when set, otherwise
// <XDG state home>/mcpbridge.
func StateDir() string {
	if dir := os.Getenv(StateDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, AppDir)
}

// BackupDir returns the directory holding config file backups.
func BackupDir() string {
	return filepath.Join(StateDir(), "backups")
}
