package docflag

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// definitionsFile is the YAML layout read by [LoadDefinitions].
type definitionsFile struct {
	Flags []Definition `yaml:"flags"`
}

// LoadDefinitions reads flag definitions from a YAML document. An empty
// document yields no definitions. Unknown keys are rejected.
func LoadDefinitions(r io.Reader) ([]Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read flag definitions: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var f definitionsFile

	err = yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	for _, def := range f.Flags {
		err := def.validate()
		if err != nil {
			return nil, err
		}
	}

	return f.Flags, nil
}
