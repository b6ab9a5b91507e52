// Package mcp provides the stdio MCP server exposing export tools, so a
// coding agent can request a project pack directly instead of the user
// exporting and pasting one by hand.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/scriptpack/internal/backup"
	"github.com/go-ports/scriptpack/internal/buildinfo"
	"github.com/go-ports/scriptpack/internal/config"
	"github.com/go-ports/scriptpack/internal/db"
	"github.com/go-ports/scriptpack/internal/exporter"
)

const exportDescription = `Pack a project's script files into a single text artifact. Walks the working directory and its "scripts" subdirectory, collects files by extension, rotates any previous artifact into the backup store, and writes a new one. Returns the artifact path and collection counts. Duplicated filenames are excluded and reported.`

const backupsDescription = `List the Backup Artifacts stored for a working directory. Restore is intentionally not exposed here: it overwrites files and requires interactive confirmation on the CLI.`

const historyDescription = `List recent export runs recorded in the history index, newest first.`

// NewServer creates and registers all pack tools on a new MCP server.
// Separate from Serve so tests can obtain a configured server without the
// stdio transport.
func NewServer(backupRoot string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("scriptpack", buildinfo.Version)
	registerTools(s, backupRoot)
	return s
}

// Serve starts the stdio MCP server, blocking until stdin closes.
func Serve(_ context.Context, backupRoot string) error {
	if backupRoot == "" {
		backupRoot = config.GetBackupRoot()
	}
	return mcpserver.ServeStdio(NewServer(backupRoot))
}

func registerTools(s *mcpserver.MCPServer, backupRoot string) {
	s.AddTool(mcp.NewTool("pack_export",
		mcp.WithDescription(exportDescription),
		mcp.WithString("workdir",
			mcp.Description("Absolute path of the project directory to pack."),
			mcp.Required(),
		),
		mcp.WithArray("extensions",
			mcp.Description("Extra file extensions to include, with or without a leading dot."),
			mcp.WithStringItems(),
		),
		mcp.WithArray("folders",
			mcp.Description("Extra subdirectory names beneath the workdir to search."),
			mcp.WithStringItems(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleExport(ctx, backupRoot, req)
	})

	s.AddTool(mcp.NewTool("pack_backups",
		mcp.WithDescription(backupsDescription),
		mcp.WithString("workdir",
			mcp.Description("Absolute path of the project directory."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleBackups(ctx, backupRoot, req)
	})

	s.AddTool(mcp.NewTool("pack_history",
		mcp.WithDescription(historyDescription),
		mcp.WithNumber("limit",
			mcp.Description("Max runs to return (default 10)."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleHistory(ctx, backupRoot, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleExport(_ context.Context, backupRoot string, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workdir := req.GetString("workdir", "")
	if workdir == "" {
		return mcp.NewToolResultError("workdir is required"), nil
	}

	cfg, err := config.Load(filepath.Join(workdir, "scriptpack.yaml"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var progress bytes.Buffer
	exp := exporter.New(cfg, workdir, backupRoot, &progress)
	summary, err := exp.Export(exporter.Options{
		ExtraExtensions: req.GetStringSlice("extensions", make([]string, 0)),
		ExtraFolders:    req.GetStringSlice("folders", make([]string, 0)),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	duplicates := make([]string, 0, len(summary.Duplicates))
	for _, d := range summary.Duplicates {
		duplicates = append(duplicates, d.Name)
	}
	return jsonResult(map[string]any{
		"artifact":     summary.Artifact,
		"file_count":   summary.FileCount,
		"duplicates":   duplicates,
		"log_attached": summary.LogAttached,
	})
}

func handleBackups(_ context.Context, backupRoot string, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workdir := req.GetString("workdir", "")
	if workdir == "" {
		return mcp.NewToolResultError("workdir is required"), nil
	}
	dir := backup.Dir(backupRoot, filepath.Base(filepath.Clean(workdir)))
	artifacts, err := backup.List(dir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		names = append(names, filepath.Base(a))
	}
	return jsonResult(map[string]any{
		"backup_dir": dir,
		"artifacts":  names,
	})
}

func handleHistory(_ context.Context, backupRoot string, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	database, err := db.Open(filepath.Join(backupRoot, "history.db"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer database.Close()

	runs, err := database.RecentRuns(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	clean := make([]map[string]any, 0, len(runs))
	for _, r := range runs {
		clean = append(clean, map[string]any{
			"created_at":   r.CreatedAt.Format(time.RFC3339),
			"workdir":      r.WorkDir,
			"artifact":     filepath.Base(r.Artifact),
			"file_count":   r.FileCount,
			"duplicates":   r.DuplicateCount,
			"log_attached": r.LogAttached,
		})
	}
	return jsonResult(clean)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
