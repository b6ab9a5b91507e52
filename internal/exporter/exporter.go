// Package exporter orchestrates an export run: rotate old artifacts into
// backups, collect and decode the project's script files, attach a log
// excerpt, render the Export Document and write it in a single call, then
// record the run in the history index.
package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-ports/scriptpack/internal/backup"
	"github.com/go-ports/scriptpack/internal/collect"
	"github.com/go-ports/scriptpack/internal/config"
	"github.com/go-ports/scriptpack/internal/db"
	"github.com/go-ports/scriptpack/internal/document"
	"github.com/go-ports/scriptpack/internal/logscan"
	"github.com/go-ports/scriptpack/internal/normalize"
	"github.com/go-ports/scriptpack/internal/textenc"
)

// unreadablePlaceholder stands in for the content of a file that could not
// be read; the run continues with the remaining files.
const unreadablePlaceholder = "[Error reading file]"

// Exporter runs exports against one working directory. The directory is an
// explicit value, never read ambiently, so tests can point it anywhere.
type Exporter struct {
	WorkDir    string
	ScriptsDir string
	BackupRoot string
	Cfg        *config.Config
	Decoder    textenc.Decoder
	Out        io.Writer
}

// New returns an Exporter for workdir with the default decoder.
func New(cfg *config.Config, workdir, backupRoot string, out io.Writer) *Exporter {
	return &Exporter{
		WorkDir:    workdir,
		ScriptsDir: filepath.Join(workdir, document.ScriptsSubdir),
		BackupRoot: backupRoot,
		Cfg:        cfg,
		Decoder:    textenc.ChardetDecoder{},
		Out:        out,
	}
}

// Options are the per-run knobs from the CLI.
type Options struct {
	// ExtraExtensions extends the configured extension filters.
	ExtraExtensions []string
	// ExtraFolders are additional base directories beneath the workdir.
	ExtraFolders []string
	// Normalize runs the comment normalizer over the managed directories
	// before collecting.
	Normalize bool
}

// Summary describes a completed run. Artifact is "" when there was nothing
// to export.
type Summary struct {
	Artifact    string
	FileCount   int
	Duplicates  []collect.Duplicate
	LogAttached bool
}

// Export performs one export run. Failure to create the backup directory is
// fatal; per-file problems are reported and skipped.
func (e *Exporter) Export(opts Options) (*Summary, error) {
	cfg := *e.Cfg
	cfg.AddExtensions(opts.ExtraExtensions)

	if opts.Normalize {
		err := normalize.Run(normalize.Options{
			Dirs:         []string{e.WorkDir, e.ScriptsDir},
			Extensions:   []string{".py"},
			ExcludeDirs:  cfg.ExcludeDirs,
			ExcludeFiles: cfg.ExcludeFiles,
		}, e.Out)
		if err != nil {
			return nil, fmt.Errorf("exporter: normalize pre-step: %w", err)
		}
	}

	workDirName := filepath.Base(filepath.Clean(e.WorkDir))
	backupDir := backup.Dir(e.BackupRoot, workDirName)
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("exporter: create backup directory %q: %w", backupDir, err)
	}
	fmt.Fprintf(e.Out, "Backup directory ensured at %q.\n", backupDir)
	if err := backup.Rotate(e.WorkDir, backupDir, e.Out); err != nil {
		return nil, err
	}

	extraDirs := make([]string, 0, len(opts.ExtraFolders))
	for _, f := range opts.ExtraFolders {
		extraDirs = append(extraDirs, filepath.Join(e.WorkDir, f))
	}

	entries, dups, warnings, err := collect.Scan(collect.Options{
		WorkDir:         e.WorkDir,
		ScriptsDir:      e.ScriptsDir,
		ExtraDirs:       extraDirs,
		Extensions:      cfg.Extensions,
		AlwaysInclude:   cfg.AlwaysInclude,
		ExcludeFiles:    cfg.ExcludeFiles,
		ExcludeSuffixes: []string{backup.Ext, backup.BackupExt},
		ExcludeDirs:     cfg.ExcludeDirs,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(e.Out, "Warning: %s\n", w)
	}
	if len(dups) > 0 {
		e.reportDuplicates(dups)
	}
	if len(entries) == 0 {
		fmt.Fprintln(e.Out, "No files found matching the specified criteria or all have duplicates.")
		return &Summary{Duplicates: dups}, nil
	}

	doc := &document.Document{}
	for _, entry := range entries {
		doc.Files = append(doc.Files, document.File{
			Name:      entry.Name,
			InScripts: entry.InScripts,
			Content:   e.readFile(entry.Path),
		})
	}

	if logPath, ok := logscan.FindLog(e.WorkDir); ok {
		fmt.Fprintf(e.Out, "Log file found: %s\n", logPath)
		doc.LogExcerpt = logscan.Excerpt(e.readFile(logPath))
	}

	artifact := filepath.Join(e.WorkDir,
		fmt.Sprintf("%s-%s%s", workDirName, time.Now().Format("20060102-150405"), backup.Ext))

	// The document is assembled fully in memory and written in one call so
	// a failed run never leaves a partial Export Document behind.
	if err := os.WriteFile(artifact, []byte(document.Render(doc)), 0o644); err != nil {
		return nil, fmt.Errorf("exporter: write %q: %w", artifact, err)
	}
	fmt.Fprintf(e.Out, "Successfully created %q.\n", artifact)

	summary := &Summary{
		Artifact:    artifact,
		FileCount:   len(doc.Files),
		Duplicates:  dups,
		LogAttached: doc.LogExcerpt != "",
	}
	e.recordRun(summary)
	return summary, nil
}

// readFile reads and decodes one file, normalizing line endings. Unreadable
// files yield a placeholder so the rest of the run proceeds.
func (e *Exporter) readFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(e.Out, "Error reading file %q: %v\n", path, err)
		return unreadablePlaceholder
	}
	return textenc.NormalizeNewlines(e.Decoder.Decode(data))
}

// recordRun stores the run in the history index. History is best-effort:
// a failure here must not fail an export that already wrote its artifact.
func (e *Exporter) recordRun(s *Summary) {
	database, err := db.Open(filepath.Join(e.BackupRoot, "history.db"))
	if err != nil {
		slog.Warn("failed to open export history", "err", err)
		return
	}
	defer database.Close()
	_, err = database.RecordRun(&db.Run{
		WorkDir:        e.WorkDir,
		Artifact:       s.Artifact,
		FileCount:      s.FileCount,
		DuplicateCount: len(s.Duplicates),
		LogAttached:    s.LogAttached,
	})
	if err != nil {
		slog.Warn("failed to record export run", "err", err)
	}
}

func (e *Exporter) reportDuplicates(dups []collect.Duplicate) {
	fmt.Fprintln(e.Out, "\n=== Duplicate Filenames Detected ===")
	for _, d := range dups {
		fmt.Fprintf(e.Out, "\nDuplicate Filename: %s\n", d.Name)
		fmt.Fprintln(e.Out, "-----------------------------------")
		for i, f := range d.Files {
			fmt.Fprintf(e.Out, "File %d:\n", i+1)
			fmt.Fprintf(e.Out, "  Path           : %s\n", f.Path)
			fmt.Fprintf(e.Out, "  Size           : %d bytes\n", f.Size)
			fmt.Fprintf(e.Out, "  Last Modified  : %s\n", f.ModTime.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(e.Out, "  Lines of Code  : %d\n", f.Lines)
		}
		fmt.Fprintln(e.Out, "-----------------------------------")
	}
	fmt.Fprintln(e.Out, "\nPlease resolve duplicate filenames to ensure each script is uniquely identified.")
}
