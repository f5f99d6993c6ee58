package source

import (
	"bytes"
	"regexp"
)

// declarationPattern matches a coding declaration comment, such as
// "# -*- coding: latin-1 -*-" or "# vim: set fileencoding=rot13 :".
var declarationPattern = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-\w.]+)`)

// utf8BOM is the UTF-8 byte order mark.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Declaration locates a coding declaration in a source file.
type Declaration struct {
	Name  string // Encoding name as written
	Line  int    // 1 or 2
	Start int    // Offset of the declaring line
	End   int    // Offset past the declaring line, newline included
}

// FindDeclaration looks for a coding declaration in the first line of data,
// or in the second line when the first is blank or a comment.
func FindDeclaration(data []byte) (Declaration, bool) {
	start := 0
	for line := 1; line <= 2; line++ {
		text, end := nextLine(data, start)
		if m := declarationPattern.FindSubmatch(text); m != nil {
			return Declaration{
				Name:  string(m[1]),
				Line:  line,
				Start: start,
				End:   end,
			}, true
		}
		if end == start || !blankOrComment(text) {
			break
		}
		start = end
	}
	return Declaration{}, false
}

// nextLine returns the line beginning at start without its terminator, and
// the offset past the terminator.
func nextLine(data []byte, start int) ([]byte, int) {
	rest := data[start:]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		return bytes.TrimSuffix(rest, []byte{'\r'}), len(data)
	}
	return bytes.TrimSuffix(rest[:i], []byte{'\r'}), start + i + 1
}

func blankOrComment(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t\f")
	return len(trimmed) == 0 || trimmed[0] == '#'
}

// isASCII reports whether p holds only 7-bit bytes.
func isASCII(p []byte) bool {
	for _, b := range p {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
