package logscan_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/scriptpack/internal/logscan"
)

func TestFindLog_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("no log files", func(c *qt.C) {
		dir := t.TempDir()
		_, ok := logscan.FindLog(dir)
		c.Assert(ok, qt.IsFalse)
	})

	c.Run("first log by name wins", func(c *qt.C) {
		dir := t.TempDir()
		c.Assert(os.WriteFile(filepath.Join(dir, "b.log"), []byte("b"), 0o644), qt.IsNil)
		c.Assert(os.WriteFile(filepath.Join(dir, "a.log"), []byte("a"), 0o644), qt.IsNil)
		c.Assert(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644), qt.IsNil)

		path, ok := logscan.FindLog(dir)
		c.Assert(ok, qt.IsTrue)
		c.Assert(path, qt.Equals, filepath.Join(dir, "a.log"))
	})

	c.Run("search is not recursive", func(c *qt.C) {
		dir := t.TempDir()
		sub := filepath.Join(dir, "nested")
		c.Assert(os.MkdirAll(sub, 0o755), qt.IsNil)
		c.Assert(os.WriteFile(filepath.Join(sub, "deep.log"), []byte("x"), 0o644), qt.IsNil)

		_, ok := logscan.FindLog(dir)
		c.Assert(ok, qt.IsFalse)
	})

	c.Run("extension match is case-insensitive", func(c *qt.C) {
		dir := t.TempDir()
		c.Assert(os.WriteFile(filepath.Join(dir, "RUN.LOG"), []byte("x"), 0o644), qt.IsNil)

		path, ok := logscan.FindLog(dir)
		c.Assert(ok, qt.IsTrue)
		c.Assert(path, qt.Equals, filepath.Join(dir, "RUN.LOG"))
	})
}

func TestExcerpt_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no marker returns everything",
			in:   "line1\nline2\nline3\n",
			want: "line1\nline2\nline3\n",
		},
		{
			name: "error marker keeps three lead-in lines",
			in:   "a\nb\nc\nd\ne\nERROR: boom\nafter\n",
			want: "c\nd\ne\nERROR: boom\nafter\n",
		},
		{
			name: "marker near the top clamps to start",
			in:   "a\nERROR: boom\nafter\n",
			want: "a\nERROR: boom\nafter\n",
		},
		{
			name: "traceback marker recognized",
			in:   "a\nb\nc\nd\nTraceback (most recent call last):\n  boom\n",
			want: "b\nc\nd\nTraceback (most recent call last):\n  boom\n",
		},
		{
			name: "earliest marker wins",
			in:   "a\nb\nc\nd\nTraceback here\nx\nERROR later\n",
			want: "b\nc\nd\nTraceback here\nx\nERROR later\n",
		},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(logscan.Excerpt(tc.in), qt.Equals, tc.want)
		})
	}
}
