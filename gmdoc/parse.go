package gmdoc

import (
	"fmt"
	"strings"

	"go.jacobcolvin.com/gmdoc/comment"
	"go.jacobcolvin.com/gmdoc/docflag"
	"go.jacobcolvin.com/gmdoc/rtf"
)

// Comment tokens, in recognition priority order.
const (
	TokenFlags  = "@flags"
	TokenParam  = "@param"
	TokenReturn = "@return"
)

// ParseScript builds the [Method] documented by the leading comment of src.
//
// The first non-empty comment line is the syntax signature; the remaining
// lines go through [ParseComment] with a fresh flag set from flags. Recoverable
// problems are returned as warnings. A non-nil error means the script cannot
// be documented.
func ParseScript(name, src string, flags *docflag.Source) (*Method, []error, error) {
	syntax, lines := splitSyntax(comment.Lines(comment.Extract(src)))

	m := &Method{
		Name:   name,
		Syntax: syntax,
		Params: []Param{},
	}

	warnings, err := ParseComment(m, lines, flags.NewSet())
	if err != nil {
		return nil, warnings, err
	}

	return m, warnings, nil
}

// splitSyntax returns the first non-empty cleaned line and the lines after it.
func splitSyntax(lines []string) (string, []string) {
	for i, l := range lines {
		if s := comment.Clean(l); s != "" {
			return s, lines[i+1:]
		}
	}

	return "", nil
}

// ParseComment classifies each comment line and updates m.
//
// A line containing "@flags" applies its payload to flags, else a line
// containing "@param" appends a [Param], else a line containing "@return"
// sets the [Return]. Every other line is cleaned of comment markup and added
// to the description. Only the first matching token counts.
//
// A "@param" line without description text still adds the parameter, and a
// "@param" line without any payload is ignored; both are reported as
// [ErrMalformedParamLine] warnings. A built-in flag set to a non-boolean
// value, such as "private=yes", is reported as a [docflag.ErrInvalidValue]
// warning and reads as false. An unknown bare flag name aborts parsing with
// [docflag.ErrUnknownFlag].
//
// m.Flags holds the flag values when ParseComment returns without error.
func ParseComment(m *Method, lines []string, flags *docflag.Set) ([]error, error) {
	var (
		desc     []string
		warnings []error
	)

	for _, line := range lines {
		if payload, ok := cutToken(line, TokenFlags); ok {
			err := flags.Apply(payload)
			if err != nil {
				return warnings, err
			}

			continue
		}

		if payload, ok := cutToken(line, TokenParam); ok {
			p, err := parseParam(payload)
			if err != nil {
				warnings = append(warnings, err)
			}

			if p.Name != "" {
				m.Params = append(m.Params, p)
			}

			continue
		}

		if payload, ok := cutToken(line, TokenReturn); ok {
			m.Return = &Return{Type: TypeReal, Description: payload}

			continue
		}

		desc = append(desc, comment.Clean(line))
	}

	m.Description = strings.Trim(strings.Join(desc, "\n"), "\n")
	m.Flags = flags.Values

	warnings = append(warnings, flags.CheckBool(docflag.Private, docflag.NoSidebar)...)

	return warnings, nil
}

// cutToken returns the trimmed text after the first occurrence of token in
// line.
func cutToken(line, token string) (string, bool) {
	i := strings.Index(line, token)
	if i < 0 {
		return "", false
	}

	return comment.TrimCloser(strings.TrimSpace(line[i+len(token):])), true
}

// parseParam splits a "@param" payload into name and description at the
// first whitespace.
func parseParam(payload string) (Param, error) {
	if payload == "" {
		return Param{}, fmt.Errorf("%w: missing name", ErrMalformedParamLine)
	}

	i := strings.IndexAny(payload, " \t")
	if i < 0 {
		return Param{Name: payload, Type: TypeReal},
			fmt.Errorf("%w: parameter %q has no description", ErrMalformedParamLine, payload)
	}

	return Param{
		Name:        payload[:i],
		Type:        TypeReal,
		Description: strings.TrimSpace(payload[i+1:]),
	}, nil
}

// ParseHelp builds the [Help] record from raw help file data.
func ParseHelp(data []byte, ex *rtf.Extractor) Help {
	text := ex.PlainText(data)
	docs := comment.Extract(text)

	return Help{
		Plaintext: text,
		Docs:      docs,
		DocsSplit: comment.Lines(docs),
	}
}
