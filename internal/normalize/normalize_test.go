package normalize_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/scriptpack/internal/normalize"
)

func TestContent_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("banner inserted when missing", func(c *qt.C) {
		out, res := normalize.Content("print(1)\n", "a.py")
		c.Assert(out, qt.Equals, "# a.py\nprint(1)\n")
		c.Assert(res.BannerAdded, qt.IsTrue)
		c.Assert(res.BannerKept, qt.IsFalse)
	})

	c.Run("existing banner kept in place", func(c *qt.C) {
		in := "# a.py\nprint(1)\n"
		out, res := normalize.Content(in, "a.py")
		c.Assert(out, qt.Equals, in)
		c.Assert(res.BannerKept, qt.IsTrue)
		c.Assert(res.Changed(), qt.IsFalse)
	})

	c.Run("duplicate banners removed", func(c *qt.C) {
		in := "# a.py\nprint(1)\n# a.py\nprint(2)\n"
		out, res := normalize.Content(in, "a.py")
		c.Assert(out, qt.Equals, "# a.py\nprint(1)\nprint(2)\n")
		c.Assert(res.DuplicateBannersRemoved, qt.Equals, 1)
	})

	c.Run("inline comments stripped, code kept", func(c *qt.C) {
		out, res := normalize.Content("# a.py\nprint(1)  # noise\n", "a.py")
		c.Assert(out, qt.Equals, "# a.py\nprint(1)\n")
		c.Assert(res.InlineRemoved, qt.Equals, 1)
	})

	c.Run("standalone comments deleted", func(c *qt.C) {
		out, res := normalize.Content("# a.py\n# explain\nprint(1)\n  # indented too\n", "a.py")
		c.Assert(out, qt.Equals, "# a.py\nprint(1)\n")
		c.Assert(res.StandaloneRemoved, qt.Equals, 2)
	})

	c.Run("banner for another file is an ordinary comment", func(c *qt.C) {
		out, res := normalize.Content("# b.py\nprint(1)\n", "a.py")
		c.Assert(out, qt.Equals, "# a.py\nprint(1)\n")
		c.Assert(res.BannerAdded, qt.IsTrue)
		c.Assert(res.StandaloneRemoved, qt.Equals, 1)
	})

	c.Run("no trailing newline preserved", func(c *qt.C) {
		out, _ := normalize.Content("print(1)", "a.py")
		c.Assert(out, qt.Equals, "# a.py\nprint(1)")
	})

	c.Run("idempotent", func(c *qt.C) {
		once, _ := normalize.Content("print(1)  # x\n# y\n", "a.py")
		twice, res := normalize.Content(once, "a.py")
		c.Assert(twice, qt.Equals, once)
		c.Assert(res.Changed(), qt.IsFalse)
	})
}

func TestResult_Summary(t *testing.T) {
	c := qt.New(t)

	c.Run("no changes", func(c *qt.C) {
		r := normalize.Result{Path: "a.py", BannerKept: true}
		c.Assert(r.Summary(), qt.Equals, "No changes: a.py")
	})

	c.Run("actions joined", func(c *qt.C) {
		r := normalize.Result{Path: "a.py", BannerAdded: true, InlineRemoved: 2}
		c.Assert(r.Summary(), qt.Equals, "ADDED banner comment and REMOVED 2 in-line comments: a.py")
	})
}

func TestFile_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("rewrites only when changed", func(c *qt.C) {
		dir := t.TempDir()
		path := filepath.Join(dir, "a.py")
		c.Assert(os.WriteFile(path, []byte("print(1)  # x\n"), 0o644), qt.IsNil)

		res, err := normalize.File(path)
		c.Assert(err, qt.IsNil)
		c.Assert(res.Changed(), qt.IsTrue)

		data, err := os.ReadFile(path)
		c.Assert(err, qt.IsNil)
		c.Assert(string(data), qt.Equals, "# a.py\nprint(1)\n")
	})

	c.Run("missing file errors", func(c *qt.C) {
		_, err := normalize.File(filepath.Join(t.TempDir(), "nope.py"))
		c.Assert(err, qt.IsNotNil)
	})
}

func TestRun_HappyPath(t *testing.T) {
	c := qt.New(t)

	workdir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(workdir, rel)
		c.Assert(os.MkdirAll(filepath.Dir(path), 0o755), qt.IsNil)
		c.Assert(os.WriteFile(path, []byte(content), 0o644), qt.IsNil)
	}
	write("a.py", "print(1)  # x\n")
	write("scripts/b.py", "print(2)\n")
	write("venv/lib.py", "untouched  # comment\n")
	write("notes.txt", "# not a script\n")

	var out bytes.Buffer
	err := normalize.Run(normalize.Options{
		Dirs:        []string{workdir, filepath.Join(workdir, "missing")},
		Extensions:  []string{".py"},
		ExcludeDirs: []string{"venv"},
	}, &out)
	c.Assert(err, qt.IsNil)

	data, err := os.ReadFile(filepath.Join(workdir, "a.py"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "# a.py\nprint(1)\n")

	data, err = os.ReadFile(filepath.Join(workdir, "venv", "lib.py"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "untouched  # comment\n")

	data, err = os.ReadFile(filepath.Join(workdir, "notes.txt"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "# not a script\n")

	c.Assert(out.String(), qt.Contains, "does not exist")
	c.Assert(out.String(), qt.Contains, "ADDED banner comment")
}
