// Package collect enumerates the script files that go into an export:
// a recursive walk over the configured base directories with extension and
// filename filters, plus duplicate-basename detection across all of them.
package collect

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one collected file, classified by the managed directory it
// belongs to.
type Entry struct {
	// Name is the file's basename as found on disk.
	Name string
	// Path is the absolute path.
	Path string
	// InScripts is true when the file lives under the scripts subdirectory;
	// false means it belongs to the working directory.
	InScripts bool
}

// FileInfo describes one candidate path of a duplicated filename.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
	Lines   int
}

// Duplicate is a basename found at more than one path. Duplicated names are
// excluded from exports entirely: the document must never silently encode
// one of several same-named candidates.
type Duplicate struct {
	Name  string
	Files []FileInfo
}

// Options configures a Scan.
type Options struct {
	// WorkDir is the primary directory. Its walk does not descend into
	// ScriptsDir, which is walked as its own base.
	WorkDir string
	// ScriptsDir is the managed scripts subdirectory (may not exist).
	ScriptsDir string
	// ExtraDirs are additional base directories beneath WorkDir.
	ExtraDirs []string
	// Extensions are lowercased dot-prefixed suffixes to keep.
	Extensions []string
	// AlwaysInclude is an exact lowercased filename kept regardless of
	// extension ("" disables).
	AlwaysInclude string
	// ExcludeFiles are exact lowercased filenames to drop.
	ExcludeFiles []string
	// ExcludeSuffixes are lowercased suffixes to drop unconditionally
	// (the tool's own artifacts).
	ExcludeSuffixes []string
	// ExcludeDirs are directory names never descended into, on top of
	// hidden directories.
	ExcludeDirs []string
}

// Scan walks the base directories and returns the unique entries in
// discovery order, the duplicates that were dropped, and warnings for base
// directories that were skipped because they do not exist.
func Scan(opts Options) (entries []Entry, dups []Duplicate, warnings []string, err error) {
	baseDirs := dedupeDirs(append([]string{opts.WorkDir, opts.ScriptsDir}, opts.ExtraDirs...))

	byName := make(map[string][]Entry)
	var order []string

	for _, base := range baseDirs {
		if _, statErr := os.Stat(base); statErr != nil {
			warnings = append(warnings, fmt.Sprintf("directory %q does not exist and will be skipped", base))
			continue
		}

		skipDirs := opts.ExcludeDirs
		if base == opts.WorkDir {
			// Subdirectories that are base dirs in their own right must not
			// also be reached through the primary walk.
			skipDirs = append(append([]string{}, skipDirs...), filepath.Base(opts.ScriptsDir))
			for _, d := range opts.ExtraDirs {
				skipDirs = append(skipDirs, filepath.Base(d))
			}
		}

		walkErr := filepath.WalkDir(base, func(path string, d fs.DirEntry, werr error) error {
			if werr != nil {
				return werr
			}
			name := d.Name()
			if d.IsDir() {
				if path != base && (strings.HasPrefix(name, ".") || containsName(skipDirs, name)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !keep(name, opts) {
				return nil
			}
			lower := strings.ToLower(name)
			for _, seen := range byName[lower] {
				if seen.Path == path {
					return nil
				}
			}
			if len(byName[lower]) == 0 {
				order = append(order, lower)
			}
			byName[lower] = append(byName[lower], Entry{
				Name:      name,
				Path:      path,
				InScripts: inDir(path, opts.ScriptsDir),
			})
			return nil
		})
		if walkErr != nil {
			return nil, nil, warnings, fmt.Errorf("collect.Scan %q: %w", base, walkErr)
		}
	}

	for _, lower := range order {
		group := byName[lower]
		if len(group) > 1 {
			dups = append(dups, Duplicate{Name: lower, Files: describe(group)})
			continue
		}
		entries = append(entries, group[0])
	}
	return entries, dups, warnings, nil
}

// keep applies the filename filters: hidden and excluded names are dropped,
// then the name must match an allowed extension or the always-include name.
func keep(name string, opts Options) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	lower := strings.ToLower(name)
	if containsName(opts.ExcludeFiles, lower) {
		return false
	}
	for _, suf := range opts.ExcludeSuffixes {
		if strings.HasSuffix(lower, suf) {
			return false
		}
	}
	if opts.AlwaysInclude != "" && lower == opts.AlwaysInclude {
		return true
	}
	for _, ext := range opts.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// describe collects size, modification time and line count for each path of
// a duplicated name. Unreadable paths report zero values rather than
// aborting the scan.
func describe(group []Entry) []FileInfo {
	infos := make([]FileInfo, 0, len(group))
	for _, e := range group {
		fi := FileInfo{Path: e.Path}
		if st, err := os.Stat(e.Path); err == nil {
			fi.Size = st.Size()
			fi.ModTime = st.ModTime()
		}
		if data, err := os.ReadFile(e.Path); err == nil {
			fi.Lines = countLines(data)
		}
		infos = append(infos, fi)
	}
	return infos
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte("\n"))
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

func inDir(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func containsName(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func dedupeDirs(dirs []string) []string {
	seen := make(map[string]bool, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
