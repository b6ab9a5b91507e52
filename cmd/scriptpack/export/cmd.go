// Package exportcmd implements the `scriptpack export` command.
package exportcmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-ports/scriptpack/cmd/scriptpack/shared"
	"github.com/go-ports/scriptpack/internal/config"
	"github.com/go-ports/scriptpack/internal/exporter"
)

// Command implements `scriptpack export`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	extensions []string
	folders    []string
	normalize  bool
}

// New creates the export command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "export",
		Short: "Collect project scripts into a single Export Document",
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringSliceVarP(&c.extensions, "extensions", "e", nil,
		"Additional file extensions to include (e.g. -e txt -e md)")
	f.StringSliceVarP(&c.folders, "folders", "f", nil,
		"Additional subdirectories beneath the working directory to search")
	f.BoolVar(&c.normalize, "normalize", false,
		"Run the comment normalizer over the managed directories first")

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
		return fmt.Errorf("export: load config: %w", err)
	}

	exp := exporter.New(cfg, workdir, c.ctx.ResolveBackupRoot(), cmd.OutOrStdout())
	summary, err := exp.Export(exporter.Options{
		ExtraExtensions: c.extensions,
		ExtraFolders:    c.folders,
		Normalize:       c.normalize,
	})
	if err != nil {
		return err
	}
	if summary.Artifact != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Packed %d files into %s\n", summary.FileCount, summary.Artifact)
	}
	return nil
}
