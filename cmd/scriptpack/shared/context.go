// Package shared holds the context passed to all CLI commands.
package shared

import (
	"os"

	"github.com/go-ports/scriptpack/internal/config"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// WorkDir overrides the working directory. When empty, the process's
	// current directory is used. The core packages only ever see the
	// resolved value, never the ambient cwd.
	WorkDir string
	// BackupRoot overrides the backup root. When empty, resolution falls
	// through to the SCRIPTPACK_BACKUP_ROOT env var, then the persisted
	// global config, then the default under the home directory.
	BackupRoot string
}

// ResolveWorkDir returns the effective working directory.
func (c *Context) ResolveWorkDir() (string, error) {
	if c.WorkDir != "" {
		return c.WorkDir, nil
	}
	return os.Getwd()
}

// ResolveBackupRoot returns the effective backup root.
func (c *Context) ResolveBackupRoot() string {
	if c.BackupRoot != "" {
		return c.BackupRoot
	}
	return config.GetBackupRoot()
}
