// Package rtf recovers visible text from simplified rich-text (RTF) documents.
//
// Only the text of the document body is kept: the first brace nesting level
// that carries non-blank text, which is level 1 for any document whose root
// group holds text directly. Destination groups such as the font table, color
// table, stylesheet, info block and "\*" groups never contribute text. Control words are discarded together with their
// delimiter, except for words mapped to a replacement such as "\line".
//
// The supported escape subset is: control words, the control symbol "\\", and
// "\'hh" hex escapes decoded through a single-byte code page (Windows-1252 by
// default). Braces always open or close a group, escaped or not.
package rtf

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Extractor converts RTF data to plain text.
//
// Create instances with [New]. An Extractor is immutable and safe for
// concurrent use.
type Extractor struct {
	words   map[string]string
	charmap *charmap.Charmap
}

// Option configures an [Extractor].
type Option func(*Extractor)

// WithControlWord maps the control word (without its backslash) to a
// replacement string emitted in its place.
func WithControlWord(word, replacement string) Option {
	return func(e *Extractor) {
		e.words[word] = replacement
	}
}

// WithCharmap sets the code page used to decode "\'hh" escapes.
func WithCharmap(cm *charmap.Charmap) Option {
	return func(e *Extractor) {
		e.charmap = cm
	}
}

// New creates an [Extractor] that translates "\line" to a newline and decodes
// hex escapes as Windows-1252, then applies opts.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		words:   map[string]string{"line": "\n"},
		charmap: charmap.Windows1252,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

var defaultExtractor = New()

// destinations are the control words that, when first in a group, mark the
// group and everything nested in it as non-body text.
var destinations = map[string]bool{
	"*":          true,
	"colortbl":   true,
	"fonttbl":    true,
	"info":       true,
	"pict":       true,
	"stylesheet": true,
}

// PlainText extracts text from data using the default [Extractor].
func PlainText(data []byte) string {
	return defaultExtractor.PlainText(data)
}

// PlainText returns the visible body text of data.
//
// Malformed input never fails: unbalanced closing braces drive the depth
// negative and the text at those depths is dropped.
func (e *Extractor) PlainText(data []byte) string {
	s := scanner{ex: e}

	for i := 0; i < len(data); i++ {
		c := data[i]

		if s.escaped {
			switch {
			case s.word.Len() == 0 && c == '\'':
				i += s.hex(data[i+1:])

				continue
			case s.word.Len() == 0 && c == '\\':
				s.emit("\\")

				s.escaped = false

				continue
			case !isFinisher(c):
				s.word.WriteByte(c)

				continue
			}

			s.endWord()

			// The finisher is consumed unless it starts a new escape or
			// changes the depth.
			if c != '\\' && c != '{' && c != '}' {
				continue
			}
		}

		switch c {
		case '\\':
			s.escaped = true
		case '{':
			s.open()
		case '}':
			s.close()
		default:
			s.emitByte(c)
		}
	}

	if s.escaped {
		s.endWord()
	}

	return s.body()
}

// scanner holds the state of a single [Extractor.PlainText] call.
type scanner struct {
	ex      *Extractor
	levels  []*strings.Builder // text per depth, index 0 is depth 1
	skip    []bool             // per open group at depth >= 1
	word    strings.Builder
	depth   int
	escaped bool
	// groupStart is set until the first word or text of a group.
	groupStart bool
}

func (s *scanner) open() {
	s.depth++

	if s.depth >= 1 {
		s.skip = append(s.skip, s.skipped())
	}

	s.groupStart = true
}

func (s *scanner) close() {
	if s.depth >= 1 && len(s.skip) > 0 {
		s.skip = s.skip[:len(s.skip)-1]
	}

	s.depth--
	s.groupStart = false
}

// skipped reports whether the innermost open group is a destination.
func (s *scanner) skipped() bool {
	return len(s.skip) > 0 && s.skip[len(s.skip)-1]
}

// endWord emits the replacement for the accumulated control word, if any, and
// leaves the escape.
func (s *scanner) endWord() {
	word := s.word.String()

	if s.groupStart {
		s.groupStart = false

		if destinations[word] && len(s.skip) > 0 {
			s.skip[len(s.skip)-1] = true
		}
	}

	if r, ok := s.ex.words[word]; ok {
		s.emit(r)
	}

	s.word.Reset()

	s.escaped = false
}

// hex decodes the two hex digits at the start of rest and returns how many
// bytes were consumed.
func (s *scanner) hex(rest []byte) int {
	s.escaped = false

	if len(rest) < 2 {
		return len(rest)
	}

	hi, okHi := unhex(rest[0])
	lo, okLo := unhex(rest[1])

	if okHi && okLo {
		s.emit(string(s.ex.charmap.DecodeByte(hi<<4 | lo)))
	}

	return 2
}

func (s *scanner) level() *strings.Builder {
	if s.depth < 1 {
		return nil
	}

	for len(s.levels) < s.depth {
		s.levels = append(s.levels, &strings.Builder{})
	}

	return s.levels[s.depth-1]
}

func (s *scanner) emit(str string) {
	s.groupStart = false

	if s.skipped() {
		return
	}

	if b := s.level(); b != nil {
		b.WriteString(str)
	}
}

func (s *scanner) emitByte(c byte) {
	s.groupStart = false

	if s.skipped() {
		return
	}

	if b := s.level(); b != nil {
		b.WriteByte(c)
	}
}

// body returns the text of the shallowest level that has non-blank content.
func (s *scanner) body() string {
	for _, b := range s.levels {
		if strings.TrimSpace(b.String()) != "" {
			return b.String()
		}
	}

	if len(s.levels) > 0 {
		return s.levels[0].String()
	}

	return ""
}

// isFinisher reports whether c ends a control word. Carriage returns are
// included so that CRLF documents behave like LF ones.
func isFinisher(c byte) bool {
	switch c {
	case '\\', ' ', '\n', '\r', ';', '{', '}':
		return true
	}

	return false
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}
