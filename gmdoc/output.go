package gmdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// Format is an output encoding for a [Project].
type Format string

// Output formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// GetAllFormatStrings returns the accepted format names.
func GetAllFormatStrings() []string {
	return []string{string(FormatJSON), string(FormatYAML)}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML:
		return f, nil
	}

	return "", fmt.Errorf("%w: unknown format %q", ErrInvalidOption, s)
}

// Encode writes p to w in the given format, indenting nested values by
// indent spaces.
func Encode(w io.Writer, p *Project, format Format, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))

	err := enc.Encode(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	out := buf.Bytes()

	if format == FormatYAML {
		out, err = jsonToYAML(out, indent)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}

	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// jsonToYAML re-encodes a JSON document as YAML, keeping key order.
func jsonToYAML(data []byte, indent int) ([]byte, error) {
	var v any

	err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap())
	if err != nil {
		return nil, err
	}

	return yaml.MarshalWithOptions(v, yaml.Indent(indent), yaml.IndentSequence(true))
}

// Schema returns the JSON Schema of the encoded [Project].
func Schema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[Project](nil)
	if err != nil {
		return nil, fmt.Errorf("infer project schema: %w", err)
	}

	s.Title = "gmdoc project"
	s.Description = "Documentation extracted from a GameMaker project."

	return s, nil
}
