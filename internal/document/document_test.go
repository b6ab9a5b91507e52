package document_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/scriptpack/internal/document"
)

func TestRender_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("numbered headers with location descriptors", func(c *qt.C) {
		out := document.Render(&document.Document{
			Files: []document.File{
				{Name: "a.py", InScripts: false, Content: "print(1)  # hi\n"},
				{Name: "b.py", InScripts: true, Content: "print(2)\n"},
			},
		})
		c.Assert(out, qt.Contains, "1) a.py (located in the working directory):\nprint(1)  # hi\n")
		c.Assert(out, qt.Contains, "2) b.py (located in the 'scripts' subdirectory):\nprint(2)\n")
		c.Assert(strings.Count(out, document.Delimiter), qt.Equals, 3)
	})

	c.Run("log excerpt gets its own delimited block", func(c *qt.C) {
		out := document.Render(&document.Document{
			LogExcerpt: "ERROR: boom",
			Files:      []document.File{{Name: "a.py", Content: "x\n"}},
		})
		c.Assert(out, qt.Contains, "See the error I receive here:\n\n"+document.Delimiter+"\n\nERROR: boom\n\n"+document.Delimiter+"\n\n")
		c.Assert(out, qt.Contains, "I've listed all the scripts in this project here:")
	})

	c.Run("no log block when excerpt empty", func(c *qt.C) {
		out := document.Render(&document.Document{
			Files: []document.File{{Name: "a.py", Content: "x\n"}},
		})
		c.Assert(strings.Contains(out, "See the error I receive here"), qt.IsFalse)
	})
}

func TestParse_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("recovers names, locations and content", func(c *qt.C) {
		text := document.Render(&document.Document{
			Files: []document.File{
				{Name: "a.py", InScripts: false, Content: "print(1)  # hi\n"},
				{Name: "b.py", InScripts: true, Content: "print(2)\n"},
			},
		})
		files := document.Parse(text)
		c.Assert(files, qt.HasLen, 2)
		c.Assert(files[0], qt.DeepEquals, document.ParsedFile{Name: "a.py", Subdir: "", Content: "print(1)  # hi"})
		c.Assert(files[1], qt.DeepEquals, document.ParsedFile{Name: "b.py", Subdir: "scripts", Content: "print(2)"})
	})

	c.Run("preamble and log block sections are ignored", func(c *qt.C) {
		text := document.Render(&document.Document{
			LogExcerpt: "ERROR: boom",
			Files:      []document.File{{Name: "a.py", Content: "x\n"}},
		})
		files := document.Parse(text)
		c.Assert(files, qt.HasLen, 1)
		c.Assert(files[0].Name, qt.Equals, "a.py")
	})

	c.Run("tolerates short delimiters of five equals", func(c *qt.C) {
		text := "junk\n=====\n1) a.py (located in the working directory):\nhello\n=====\n"
		files := document.Parse(text)
		c.Assert(files, qt.HasLen, 1)
		c.Assert(files[0].Content, qt.Equals, "hello")
	})

	c.Run("strips surrounding backticks from content", func(c *qt.C) {
		text := "=====\n1) a.py (located in the working directory):\n```\nprint(1)\n```\n=====\n"
		files := document.Parse(text)
		c.Assert(files, qt.HasLen, 1)
		c.Assert(files[0].Content, qt.Equals, "print(1)")
	})

	c.Run("other quoted subdirectories are surfaced verbatim", func(c *qt.C) {
		text := "=====\n1) a.py (located in the 'evil' subdirectory):\nx\n=====\n"
		files := document.Parse(text)
		c.Assert(files, qt.HasLen, 1)
		c.Assert(files[0].Subdir, qt.Equals, "evil")
	})

	c.Run("sections without a header are skipped", func(c *qt.C) {
		text := "no header here\n=====\nstill none\n"
		c.Assert(document.Parse(text), qt.HasLen, 0)
	})

	c.Run("indexes need not be sequential", func(c *qt.C) {
		text := "=====\n7) z.py (located in the working directory):\nz\n=====\n"
		files := document.Parse(text)
		c.Assert(files, qt.HasLen, 1)
		c.Assert(files[0].Name, qt.Equals, "z.py")
	})
}

func TestRoundTrip_RenderThenParse(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name    string
		content string
	}{
		{"single line", "print(1)\n"},
		{"multi line", "import os\n\n\ndef main():\n    pass\n"},
		{"inline comment survives", "print(1)  # hi\n"},
		{"internal equals shorter than delimiter", "x = '===='\n"},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			text := document.Render(&document.Document{
				Files: []document.File{{Name: "f.py", Content: tc.content}},
			})
			files := document.Parse(text)
			c.Assert(files, qt.HasLen, 1)
			c.Assert(files[0].Content+"\n", qt.Equals, tc.content)
		})
	}
}
