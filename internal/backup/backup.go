// Package backup manages Backup Artifacts: rotation of previous Export
// Documents out of the working directory, listing them for restore, and
// amending their filenames with a user comment.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// Ext is the extension of a freshly written Export Document.
	Ext = ".pack"
	// BackupExt marks a rotated Export Document as a Backup Artifact.
	BackupExt = ".packbak"

	// backupSubdir is the fixed per-project directory name backups land in.
	backupSubdir = "copyscript-backups"
)

// Dir returns the backup directory for a working directory with the given
// base name: <root>/<base>/copyscript-backups.
func Dir(root, workdirBase string) string {
	return filepath.Join(root, workdirBase, backupSubdir)
}

// Rotate renames every Export Document directly inside workdir to a Backup
// Artifact and moves it into backupDir. Per-item failures are reported on
// out and skipped; the rotation keeps going so one stuck file cannot block
// a new export. backupDir must already exist.
func Rotate(workdir, backupDir string, out io.Writer) error {
	entries, err := os.ReadDir(workdir)
	if err != nil {
		return fmt.Errorf("backup.Rotate: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), Ext) {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		bakName := stem + BackupExt
		renamed := filepath.Join(workdir, bakName)
		if err := os.Rename(filepath.Join(workdir, e.Name()), renamed); err != nil {
			fmt.Fprintf(out, "Error backing up %q: %v\n", e.Name(), err)
			continue
		}
		fmt.Fprintf(out, "Renamed %q to %q.\n", e.Name(), bakName)
		dest := filepath.Join(backupDir, bakName)
		if err := move(renamed, dest); err != nil {
			fmt.Fprintf(out, "Error backing up %q: %v\n", e.Name(), err)
			continue
		}
		fmt.Fprintf(out, "Moved %q to %q.\n", bakName, dest)
	}
	return nil
}

// List returns the full paths of all Backup Artifacts in dir, sorted by
// name. A missing directory yields an empty list, not an error.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("backup.List: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), BackupExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Amend renames a Backup Artifact to carry a trailing comment in its stem,
// sanitizing characters that are invalid in filenames. Returns the new path.
// When the comment sanitizes to nothing, or the destination already exists,
// the rename is skipped and the original path is returned.
func Amend(path, comment string) (string, error) {
	comment = SanitizeComment(comment)
	if comment == "" {
		return path, nil
	}
	dir := filepath.Dir(path)
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dest := filepath.Join(dir, stem+" "+comment+BackupExt)
	if _, err := os.Stat(dest); err == nil {
		return path, nil
	}
	if err := os.Rename(path, dest); err != nil {
		return path, fmt.Errorf("backup.Amend: %w", err)
	}
	return dest, nil
}

// SanitizeComment substitutes characters that cannot appear in filenames
// and collapses the result to a trimmed single-space-separated string.
func SanitizeComment(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '\n', '\r', '\t':
			sb.WriteRune('_')
		default:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// move renames src to dst, falling back to copy+remove when the rename
// crosses filesystems.
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
