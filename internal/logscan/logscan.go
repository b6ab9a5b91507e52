// Package logscan locates a diagnostic log in the working directory and
// extracts the slice of it worth pasting alongside the scripts.
package logscan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// contextLines is how many lines of lead-in are kept before the first
// error marker.
const contextLines = 3

// markers are the substrings that anchor the excerpt. The earliest
// occurrence of either one wins.
var markers = []string{"ERROR", "Traceback"}

// FindLog returns the lexicographically first *.log file directly inside
// dir, or ok=false when none exists. The search is non-recursive.
func FindLog(dir string) (path string, ok bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var logs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".log") {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) == 0 {
		return "", false
	}
	sort.Strings(logs)
	return filepath.Join(dir, logs[0]), true
}

// Excerpt returns the tail of content starting a few lines before the first
// line containing "ERROR" or "Traceback", whichever occurs earlier. When
// neither marker is present the whole log is returned.
func Excerpt(content string) string {
	lines := strings.Split(content, "\n")

	first := -1
	for _, marker := range markers {
		for i, line := range lines {
			if strings.Contains(line, marker) {
				if first == -1 || i < first {
					first = i
				}
				break
			}
		}
	}
	if first == -1 {
		return content
	}

	start := first - contextLines
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:], "\n")
}
