// Package textenc decodes file bytes to text with best-effort charset
// handling and normalizes line endings.
package textenc

import (
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// Decoder converts raw file bytes into a string. Implementations are
// best-effort: undecodable bytes are substituted, never reported as errors.
type Decoder interface {
	Decode(data []byte) string
}

// ChardetDecoder is the default Decoder: valid UTF-8 passes through
// untouched, anything else goes through charset detection with a Latin-1
// fallback so that every byte sequence yields some usable text.
type ChardetDecoder struct{}

// Decode implements Decoder.
func (ChardetDecoder) Decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	if res, err := chardet.NewTextDetector().DetectBest(data); err == nil && res != nil {
		if enc, err := htmlindex.Get(strings.ToLower(res.Charset)); err == nil && enc != nil {
			if out, err := enc.NewDecoder().Bytes(data); err == nil {
				return string(out)
			}
		}
	}

	// Latin-1 maps every byte to a code point, so this cannot fail.
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(out)
}

// UTF8Decoder decodes strictly as UTF-8, replacing invalid sequences with
// U+FFFD. Useful when detection overhead is unwanted (tests, known inputs).
type UTF8Decoder struct{}

// Decode implements Decoder.
func (UTF8Decoder) Decode(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}

// NormalizeNewlines rewrites CRLF line endings to LF.
func NormalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
