// Package configcmd implements the `scriptpack config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/scriptpack/cmd/scriptpack/shared"
	"github.com/go-ports/scriptpack/internal/config"
)

const configTemplate = `# scriptpack per-project configuration
# Keys present here replace the built-in defaults.

# File suffixes collected by export (dot optional on the CLI, required here).
extensions: [".py", ".ps"]

# One exact filename collected regardless of extension.
always_include: requirements.txt

# Exact filenames never collected.
# exclude_files: ["parsetab.py", "cspell.json"]

# Subdirectory names never descended into.
exclude_dirs: ["venv", ".venv", "__pycache__"]

# Phrase restore requires before overwriting anything.
confirm_phrase: "I am sure"
`

// Command implements `scriptpack config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(ctx),
		newSetBackupRoot(ctx),
		newClearBackupRoot(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	workdir, err := c.ctx.ResolveWorkDir()
	if err != nil {
		return err
	}
	root, source := config.ResolveBackupRoot()
	if c.ctx.BackupRoot != "" {
		root = c.ctx.BackupRoot
		source = "flag"
	}
	cfg, err := config.Load(filepath.Join(workdir, "scriptpack.yaml"))
	if err != nil {
		return err
	}
	data := map[string]any{
		"workdir":            workdir,
		"backup_root":        root,
		"backup_root_source": source,
		"extensions":         cfg.Extensions,
		"always_include":     cfg.AlwaysInclude,
		"exclude_files":      cfg.ExcludeFiles,
		"exclude_dirs":       cfg.ExcludeDirs,
		"confirm_phrase":     cfg.ConfirmPhrase,
		"restore_exclude":    cfg.RestoreExclude,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter scriptpack.yaml in the working directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			workdir, err := ctx.ResolveWorkDir()
			if err != nil {
				return err
			}
			cfgPath := filepath.Join(workdir, "scriptpack.yaml")
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// config set-backup-root
// ---------------------------------------------------------------------------

func newSetBackupRoot(_ *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "set-backup-root <path>",
		Short: "Persist backup root location (used when SCRIPTPACK_BACKUP_ROOT is unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.SetPersistedBackupRoot(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(resolved, 0o755); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Persisted backup root: %s\n", resolved)
			fmt.Fprintln(out, "Override anytime with SCRIPTPACK_BACKUP_ROOT.")
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config clear-backup-root
// ---------------------------------------------------------------------------

func newClearBackupRoot(_ *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-backup-root",
		Short: "Remove persisted backup root location from global config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := config.ClearPersistedBackupRoot()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Cleared persisted backup root setting.")
			} else {
				fmt.Fprintln(out, "No persisted backup root setting was found.")
			}
			return nil
		},
	}
}
