// Package comment locates the leading documentation comment of a source file
// and removes comment decoration from its lines.
package comment

import "strings"

// markup is the set of leading characters removed by [StripMarkup].
const markup = "*/ "

type state int

const (
	// stateLineStart is the state after a newline or at the start of input.
	stateLineStart state = iota
	stateLineComment
	stateBlockComment
	// stateBlankRun covers blank lines between two comment lines.
	stateBlankRun
)

// Extract returns the first contiguous documentation comment run at the top of
// src, verbatim. A run is a sequence of adjacent line comments ("//") and block
// comments ("/* */"), optionally separated by blank lines. Extraction stops at
// the first line that starts with anything other than whitespace or a comment
// marker.
//
// A source without a leading comment yields the empty string. Input that ends
// inside a comment yields everything accumulated so far.
//
// Line breaks that end a comment line are part of the result. Blank lines
// between comments are not.
func Extract(src string) string {
	var (
		sb    strings.Builder
		st    = stateLineStart
		slash bool // a '/' at line start, waiting for its second character
		star  bool // the previous block comment character was '*'
	)

	for i := range len(src) {
		c := src[i]

		if st == stateBlankRun {
			if isBlank(c) {
				continue
			}

			if c != '/' && c != '*' {
				return sb.String()
			}

			st = stateLineStart
		}

		switch st {
		case stateLineStart:
			switch {
			case slash:
				slash = false

				switch c {
				case '*':
					sb.WriteString("/*")

					st = stateBlockComment
					star = false
				case '/':
					sb.WriteString("//")

					st = stateLineComment
				default:
					return sb.String()
				}
			case c == '/':
				slash = true
			case c == '\n':
				// Keep the line break that follows a closed block comment.
				if n := sb.Len(); n > 0 && sb.String()[n-1] != '\n' {
					sb.WriteByte(c)
				}

				st = stateBlankRun
			case c == ' ' || c == '\t' || c == '\r':
				// Indentation before a marker.
			case c == '*':
				// Continuation line of a block comment that was already closed.
				sb.WriteByte(c)

				st = stateLineComment
			default:
				return sb.String()
			}

		case stateLineComment:
			sb.WriteByte(c)

			if c == '\n' {
				st = stateLineStart
			}

		case stateBlockComment:
			sb.WriteByte(c)

			if star && c == '/' {
				st = stateLineStart
			}

			star = c == '*'

		case stateBlankRun:
			// Unreachable: handled above.
		}
	}

	return sb.String()
}

// StripMarkup removes the leading run of '*', '/' and ' ' characters from
// line. A line made only of those characters becomes the empty string.
// StripMarkup is idempotent.
func StripMarkup(line string) string {
	return strings.TrimLeft(line, markup)
}

// TrimCloser removes a trailing block comment closer ("*/") and the
// whitespace around it.
func TrimCloser(line string) string {
	line = strings.TrimRight(line, " \t")
	line = strings.TrimSuffix(line, "*/")

	return strings.TrimRight(line, " \t")
}

// Clean strips leading markup and a trailing block closer from line.
func Clean(line string) string {
	return TrimCloser(StripMarkup(line))
}

// Lines splits an extracted comment block into lines. Carriage returns that
// precede a newline are dropped.
func Lines(block string) []string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
