// Package normalizecmd implements the `scriptpack normalize` command.
package normalizecmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/scriptpack/cmd/scriptpack/shared"
	"github.com/go-ports/scriptpack/internal/config"
	"github.com/go-ports/scriptpack/internal/document"
	"github.com/go-ports/scriptpack/internal/normalize"
)

// Command implements `scriptpack normalize`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	extensions []string
}

// New creates the normalize command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "normalize",
		Short: "Keep one filename banner comment per source file, strip the rest",
		RunE:  c.run,
	}
	c.cmd.Flags().StringSliceVarP(&c.extensions, "extensions", "e", []string{".py"},
		"File extensions to normalize")
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
		return fmt.Errorf("normalize: load config: %w", err)
	}

	exts := make([]string, 0, len(c.extensions))
	for _, e := range c.extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}

	return normalize.Run(normalize.Options{
		Dirs:         []string{workdir, filepath.Join(workdir, document.ScriptsSubdir)},
		Extensions:   exts,
		ExcludeDirs:  cfg.ExcludeDirs,
		ExcludeFiles: cfg.ExcludeFiles,
	}, cmd.OutOrStdout())
}
