// Package mcpcmd implements the `scriptpack mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/scriptpack/cmd/scriptpack/shared"
	"github.com/go-ports/scriptpack/internal/mcp"
)

// Command implements `scriptpack mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Run the stdio MCP server exposing export tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcp.Serve(cmd.Context(), ctx.BackupRoot)
		},
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }
