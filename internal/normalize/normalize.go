// Package normalize rewrites source files so each carries exactly one
// filename banner comment ("# <filename>") and no other comments.
package normalize

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Result reports what happened to one file.
type Result struct {
	Path string
	// BannerAdded is true when no banner existed and one was inserted.
	BannerAdded bool
	// BannerKept is true when an existing banner was found and retained.
	BannerKept              bool
	InlineRemoved           int
	StandaloneRemoved       int
	DuplicateBannersRemoved int
}

// Changed reports whether the file content was modified.
func (r *Result) Changed() bool {
	return r.BannerAdded || r.InlineRemoved > 0 || r.StandaloneRemoved > 0 || r.DuplicateBannersRemoved > 0
}

// Summary renders the per-file report line.
func (r *Result) Summary() string {
	if !r.Changed() {
		return fmt.Sprintf("No changes: %s", r.Path)
	}
	var actions []string
	if r.BannerAdded {
		actions = append(actions, "ADDED banner comment")
	} else {
		actions = append(actions, "KEPT banner comment")
	}
	if r.InlineRemoved > 0 {
		actions = append(actions, fmt.Sprintf("REMOVED %d in-line comments", r.InlineRemoved))
	}
	if r.StandaloneRemoved > 0 {
		actions = append(actions, fmt.Sprintf("REMOVED %d standalone comments", r.StandaloneRemoved))
	}
	if r.DuplicateBannersRemoved > 0 {
		actions = append(actions, fmt.Sprintf("REMOVED %d duplicate banner comments", r.DuplicateBannersRemoved))
	}
	return strings.Join(actions, " and ") + ": " + r.Path
}

// Content normalizes file content in memory: one "# <filename>" banner as
// the first surviving comment, every other comment removed. A line whose
// trailing comment is stripped keeps its right-trimmed code portion; a line
// that is a comment in its entirety is deleted. String literals containing
// '#' are not parsed and will lose their tails, same as they always have.
func Content(content, filename string) (string, Result) {
	res := Result{}
	banner := "# " + filename

	lines := strings.Split(content, "\n")
	modified := make([]string, 0, len(lines))

	for i, line := range lines {
		// Preserve the trailing empty element produced by a final newline.
		if i == len(lines)-1 && line == "" {
			modified = append(modified, line)
			continue
		}
		stripped := strings.TrimSpace(line)
		switch {
		case stripped == banner:
			if res.BannerKept {
				res.DuplicateBannersRemoved++
				continue
			}
			res.BannerKept = true
			modified = append(modified, line)
		case strings.HasPrefix(stripped, "#"):
			res.StandaloneRemoved++
		case strings.Contains(line, "#"):
			code, comment, _ := strings.Cut(line, "#")
			if strings.TrimSpace(code) != "" {
				modified = append(modified, strings.TrimRight(code, " \t\r"))
				if strings.TrimSpace(comment) != "" {
					res.InlineRemoved++
				}
			} else {
				modified = append(modified, line)
			}
		default:
			modified = append(modified, line)
		}
	}

	if !res.BannerKept {
		modified = append([]string{banner}, modified...)
		res.BannerAdded = true
	}
	return strings.Join(modified, "\n"), res
}

// File normalizes one file in place, writing it back only when a change
// occurred.
func File(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("normalize.File: %w", err)
	}
	out, res := Content(string(data), filepath.Base(path))
	res.Path = path
	if res.Changed() {
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return nil, fmt.Errorf("normalize.File: %w", err)
		}
	}
	return &res, nil
}

// Options configures a Run over a directory tree.
type Options struct {
	// Dirs are the base directories to process; missing ones are skipped
	// with a note.
	Dirs []string
	// Extensions are the lowercased dot-prefixed suffixes to normalize.
	Extensions []string
	// ExcludeDirs are directory names never descended into.
	ExcludeDirs []string
	// ExcludeFiles are exact lowercased filenames left untouched.
	ExcludeFiles []string
}

// Run normalizes every matched file beneath opts.Dirs, reporting one line
// per file on out. Per-file failures are reported and skipped.
func Run(opts Options, out io.Writer) error {
	for _, dir := range opts.Dirs {
		if _, err := os.Stat(dir); err != nil {
			fmt.Fprintf(out, "Directory %q does not exist.\n", dir)
			continue
		}
		fmt.Fprintf(out, "Processing directory: %s\n", dir)

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, werr error) error {
			if werr != nil {
				return werr
			}
			name := d.Name()
			if d.IsDir() {
				if path != dir && (strings.HasPrefix(name, ".") || containsName(opts.ExcludeDirs, name)) {
					return filepath.SkipDir
				}
				return nil
			}
			lower := strings.ToLower(name)
			if containsName(opts.ExcludeFiles, lower) || !hasExt(lower, opts.Extensions) {
				return nil
			}
			res, err := File(path)
			if err != nil {
				fmt.Fprintf(out, "ERROR processing %s: %v\n", path, err)
				return nil
			}
			fmt.Fprintln(out, res.Summary())
			return nil
		})
		if err != nil {
			return fmt.Errorf("normalize.Run %q: %w", dir, err)
		}
	}
	return nil
}

func hasExt(lower string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func containsName(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
