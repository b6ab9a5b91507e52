// Package restorecmd implements the `scriptpack restore` command.
package restorecmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-ports/scriptpack/cmd/scriptpack/shared"
	"github.com/go-ports/scriptpack/internal/backup"
	"github.com/go-ports/scriptpack/internal/config"
	"github.com/go-ports/scriptpack/internal/restore"
)

// Command implements `scriptpack restore`. The command takes no flags of its
// own: artifact selection, confirmation and continuation are interactive.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the restore command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "restore",
		Short: "Restore project scripts from a Backup Artifact",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	workdir, err := c.ctx.ResolveWorkDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(filepath.Join(workdir, "scriptpack.yaml"))
	if err != nil {
		return fmt.Errorf("restore: load config: %w", err)
	}

	session := &restore.Session{
		WorkDir:   workdir,
		BackupDir: backup.Dir(c.ctx.ResolveBackupRoot(), filepath.Base(filepath.Clean(workdir))),
		Cfg:       cfg,
		In:        restore.NewIOPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		Out:       cmd.OutOrStdout(),
	}
	return session.Run()
}
