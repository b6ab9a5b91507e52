package textenc_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/scriptpack/internal/textenc"
)

func TestChardetDecoder_HappyPath(t *testing.T) {
	c := qt.New(t)
	var d textenc.ChardetDecoder

	c.Run("valid UTF-8 passes through untouched", func(c *qt.C) {
		in := "print('héllo')\n"
		c.Assert(d.Decode([]byte(in)), qt.Equals, in)
	})

	c.Run("empty input", func(c *qt.C) {
		c.Assert(d.Decode(nil), qt.Equals, "")
	})

	c.Run("latin-1 bytes decode to valid UTF-8", func(c *qt.C) {
		// A mostly ASCII line with one Latin-1 0xE9 byte, invalid as UTF-8.
		in := append([]byte("# served at the caf"), 0xe9)
		in = append(in, []byte(" on the corner, every day\n")...)
		got := d.Decode(in)
		c.Assert(utf8.ValidString(got), qt.IsTrue)
		c.Assert(strings.HasPrefix(got, "# served at the caf"), qt.IsTrue)
	})

	c.Run("arbitrary binary never errors and yields valid UTF-8", func(c *qt.C) {
		got := d.Decode([]byte{0xff, 0xfe, 0x00, 0x80, 0x81})
		c.Assert(utf8.ValidString(got), qt.IsTrue)
	})
}

func TestUTF8Decoder_HappyPath(t *testing.T) {
	c := qt.New(t)
	var d textenc.UTF8Decoder

	c.Assert(d.Decode([]byte("plain")), qt.Equals, "plain")
	got := d.Decode([]byte{'a', 0xff, 'b'})
	c.Assert(got, qt.Equals, "a�b")
}

func TestNormalizeNewlines_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"crlf converted", "a\r\nb\r\n", "a\nb\n"},
		{"lf untouched", "a\nb\n", "a\nb\n"},
		{"mixed", "a\r\nb\nc", "a\nb\nc"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(textenc.NormalizeNewlines(tc.in), qt.Equals, tc.want)
		})
	}
}
