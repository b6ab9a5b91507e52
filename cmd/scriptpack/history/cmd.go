// Package historycmd implements the `scriptpack history` command.
package historycmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-ports/scriptpack/cmd/scriptpack/shared"
	"github.com/go-ports/scriptpack/internal/db"
)

// Command implements `scriptpack history`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	limit int
}

// New creates the history command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "history",
		Short: "List recent export runs",
		RunE:  c.run,
	}
	c.cmd.Flags().IntVar(&c.limit, "limit", 10, "Maximum number of runs to show")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	path := filepath.Join(c.ctx.ResolveBackupRoot(), "history.db")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "No export history yet.")
		return nil
	}

	database, err := db.Open(path)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.RecentRuns(c.limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No export history yet.")
		return nil
	}

	for _, r := range runs {
		logNote := ""
		if r.LogAttached {
			logNote = ", log attached"
		}
		dupNote := ""
		if r.DuplicateCount > 0 {
			dupNote = fmt.Sprintf(", %d duplicates dropped", r.DuplicateCount)
		}
		fmt.Fprintf(out, "%s  %s  (%d files%s%s)\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			filepath.Base(r.Artifact), r.FileCount, dupNote, logNote)
	}
	return nil
}
