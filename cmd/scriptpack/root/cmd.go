// Package rootcmd wires the root cobra.Command for the scriptpack CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	configcmd "github.com/go-ports/scriptpack/cmd/scriptpack/config"
	exportcmd "github.com/go-ports/scriptpack/cmd/scriptpack/export"
	historycmd "github.com/go-ports/scriptpack/cmd/scriptpack/history"
	mcpcmd "github.com/go-ports/scriptpack/cmd/scriptpack/mcp"
	normalizecmd "github.com/go-ports/scriptpack/cmd/scriptpack/normalize"
	restorecmd "github.com/go-ports/scriptpack/cmd/scriptpack/restore"
	"github.com/go-ports/scriptpack/cmd/scriptpack/shared"
)

// New creates and returns the root cobra.Command for the scriptpack CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "scriptpack",
		Short:         "scriptpack packs project scripts into one pasteable artifact",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.WorkDir, "workdir", "",
		"Override the working directory (default: current directory)",
	)
	root.PersistentFlags().StringVar(
		&ctx.BackupRoot, "backup-root", "",
		"Override backup root directory (default: $SCRIPTPACK_BACKUP_ROOT env, then persisted config, then ~/.scriptpack/backups)",
	)

	root.AddCommand(
		exportcmd.New(ctx).Cmd(),
		restorecmd.New(ctx).Cmd(),
		normalizecmd.New(ctx).Cmd(),
		historycmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
	)

	return root
}
