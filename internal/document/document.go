// Package document renders and parses the Export Document format: a fixed
// preamble, an optional log block, then numbered per-file sections separated
// by delimiter lines of equal signs. Render and Parse are inverses for any
// newline-terminated file content, which is what makes backups restorable.
package document

import (
	"fmt"
	"regexp"
	"strings"
)

// Delimiter is the section separator the renderer emits. The parser is
// more tolerant and accepts any run of five or more equal signs.
const Delimiter = "===================="

// ScriptsSubdir is the only named subdirectory a document may place files
// in. Any other quoted location is ignored at restore time.
const ScriptsSubdir = "scripts"

const preamble = "I’m encountering an error in my script, and I’ve included the output along with all related project scripts below. " +
	"Please review and provide a complete fix. Ensure your response includes a fully functional, error-free, and " +
	"deployment-ready script, with no placeholders or omissions. Additionally, any revised code should be as compact as " +
	"possible, without remarks or docstrings, while maintaining full functionality, compatibility, and interoperability. " +
	"If no changes are needed, there’s no need to include the script in your response.\n\n"

// File is one source file to be encoded as a document section.
type File struct {
	Name      string
	InScripts bool
	Content   string
}

// Document is the in-memory form of an Export Document before rendering.
type Document struct {
	// LogExcerpt, when non-empty, is emitted as a delimited error block
	// ahead of the file sections.
	LogExcerpt string
	Files      []File
}

// Render serializes the document. Sections are numbered from 1 in the order
// the files were collected.
func Render(d *Document) string {
	var head strings.Builder
	head.WriteString(preamble)
	if d.LogExcerpt != "" {
		head.WriteString("See the error I receive here:\n\n")
		head.WriteString(Delimiter)
		head.WriteString("\n\n")
		head.WriteString(d.LogExcerpt)
		head.WriteString("\n\n")
		head.WriteString(Delimiter)
		head.WriteString("\n\n")
	}
	head.WriteString("I've listed all the scripts in this project here:\n\n")
	head.WriteString(Delimiter)
	head.WriteString("\n\n")

	sections := make([]string, 0, len(d.Files)+1)
	sections = append(sections, head.String())
	for i, f := range d.Files {
		location := "located in the working directory"
		if f.InScripts {
			location = "located in the '" + ScriptsSubdir + "' subdirectory"
		}
		sections = append(sections, fmt.Sprintf("%d) %s (%s):\n%s\n%s", i+1, f.Name, location, f.Content, Delimiter))
	}
	return strings.Join(sections, "\n")
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParsedFile is one file section recovered from a document.
type ParsedFile struct {
	Name string
	// Subdir is "" for the working directory, otherwise the quoted
	// subdirectory name from the location descriptor.
	Subdir  string
	Content string
}

var (
	delimiterRe = regexp.MustCompile(`={5,}`)
	headerRe    = regexp.MustCompile(`(?m)^[ \t]*(\d+)\)[ \t]+(\S+)[ \t]+\(located in the (working directory|'([^']+)' subdirectory)\):[ \t]*\n`)
)

// Parse splits text on delimiter runs and extracts every section that opens
// with a file header. Headerless sections (the preamble, the log block) are
// skipped. The content of each section is trimmed of surrounding whitespace
// and stray backticks left by chat round-trips.
func Parse(text string) []ParsedFile {
	var files []ParsedFile
	for _, section := range delimiterRe.Split(text, -1) {
		m := headerRe.FindStringSubmatchIndex(section)
		if m == nil {
			continue
		}
		name := section[m[4]:m[5]]
		subdir := ""
		if m[8] >= 0 {
			subdir = section[m[8]:m[9]]
		}
		content := strings.TrimSpace(section[m[1]:])
		content = strings.TrimSpace(strings.Trim(content, "`"))
		files = append(files, ParsedFile{Name: name, Subdir: subdir, Content: content})
	}
	return files
}
