// Package backup keeps snapshots of the config file so that edits made by
// mcpbridge can be undone.
//
// Each backup is a timestamped directory holding a copy of the file and a
// manifest with its original location, permissions and SHA256 hash:
//
//	~/.local/state/mcpbridge/backups/
//	└── 20260123T100712/
//	    ├── manifest.json
//	    └── config.yaml
//
// Commands that rewrite the config file call [EnsureBackedUp] first. It
// takes at most one backup per file per process and prunes old backups
// beyond the retention count. Backups are listed newest first with
// [Manager.List] and put back with [Manager.Restore], which refuses copies
// whose hash no longer matches ([ErrBackupCorrupted]).
package backup
