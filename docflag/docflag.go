package docflag

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Built-in flag names.
const (
	// Private hides a method from the project's method list.
	Private = "private"
	// NoSidebar asks renderers to leave a method out of navigation.
	NoSidebar = "nosidebar"
)

var (
	// ErrUnknownFlag indicates a flag name that was never registered.
	ErrUnknownFlag = errors.New("unknown flag")
	// ErrInvalidDefinition indicates a malformed flag definition.
	ErrInvalidDefinition = errors.New("invalid flag definition")
	// ErrInvalidValue indicates a boolean flag holding a value that
	// [strconv.ParseBool] rejects.
	ErrInvalidValue = errors.New("invalid flag value")
)

// Definition registers one flag with its two defaults.
type Definition struct {
	// Name is the flag name used in "@flags" lines.
	Name string `json:"name" yaml:"name"`
	// Default is the value when the flag is never mentioned.
	Default string `json:"default" yaml:"default"`
	// Set is the value when the flag is mentioned without "=value".
	Set string `json:"set" yaml:"set"`
}

// Builtin returns the definitions every [Source] starts with.
func Builtin() []Definition {
	return []Definition{
		{Name: Private, Default: "0", Set: "1"},
		{Name: NoSidebar, Default: "0", Set: "1"},
	}
}

// Source is the registry of known flags. It is immutable once built and safe
// for concurrent use.
//
// Create instances with [NewSource].
type Source struct {
	defaults    map[string]string
	setDefaults map[string]string
}

// NewSource creates a [Source] holding the [Builtin] flags plus defs. A
// definition whose name is already registered replaces the earlier one.
func NewSource(defs ...Definition) (*Source, error) {
	s := Default()

	for _, def := range defs {
		err := def.validate()
		if err != nil {
			return nil, err
		}

		s.defaults[def.Name] = def.Default
		s.setDefaults[def.Name] = def.Set
	}

	return s, nil
}

func (d Definition) validate() error {
	switch {
	case d.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidDefinition)
	case strings.ContainsAny(d.Name, "= \t\r\n"):
		return fmt.Errorf("%w: name %q contains '=' or whitespace", ErrInvalidDefinition, d.Name)
	}

	return nil
}

// Default returns the value of a flag that is never mentioned.
func (s *Source) Default(name string) (string, bool) {
	v, ok := s.defaults[name]

	return v, ok
}

// SetDefault returns the value of a flag mentioned without a value.
func (s *Source) SetDefault(name string) (string, bool) {
	v, ok := s.setDefaults[name]

	return v, ok
}

// Names returns the registered flag names in sorted order.
func (s *Source) Names() []string {
	return slices.Sorted(maps.Keys(s.defaults))
}

// NewSet creates a [Set] initialized with a copy of the defaults.
func (s *Source) NewSet() *Set {
	return &Set{
		Values: maps.Clone(s.defaults),
		source: s,
	}
}

// Values maps flag names to their current values.
type Values map[string]string

// Get returns the value of name, or fallback when it has none. Get never
// fails.
func (v Values) Get(name, fallback string) string {
	if val, ok := v[name]; ok {
		return val
	}

	return fallback
}

// Bool reports whether name holds a true value as understood by
// [strconv.ParseBool]: "1", "t", "true" and their upper-case forms. Missing
// and unparsable values such as "yes" are false; [Values.CheckBool] reports
// them.
func (v Values) Bool(name string) bool {
	b, err := strconv.ParseBool(v.Get(name, ""))

	return err == nil && b
}

// CheckBool returns an [ErrInvalidValue] error for each of names that is set
// to a value [Values.Bool] cannot read. Missing names are not reported.
func (v Values) CheckBool(names ...string) []error {
	var errs []error

	for _, name := range names {
		val, ok := v[name]
		if !ok {
			continue
		}

		_, err := strconv.ParseBool(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidValue, name, val))
		}
	}

	return errs
}

// Set is the flag collection of a single documented method.
//
// Create instances with [Source.NewSet]. A Set is not safe for concurrent
// use.
type Set struct {
	Values

	source *Source
}

// Set stores value for name, creating the entry if needed.
func (c *Set) Set(name, value string) {
	c.Values[name] = value
}

// SetToDefault assigns the "mentioned without value" default of name. It
// returns [ErrUnknownFlag] when name is not registered in the [Source].
func (c *Set) SetToDefault(name string) error {
	v, ok := c.source.SetDefault(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}

	c.Values[name] = v

	return nil
}

// Apply parses the payload of an "@flags" line: whitespace separated tokens
// of the form "name" or "name=value". Tokens are applied in order and the
// first unknown bare name stops processing with [ErrUnknownFlag].
func (c *Set) Apply(payload string) error {
	for _, token := range strings.Fields(payload) {
		name, value, ok := strings.Cut(token, "=")
		if ok {
			c.Set(name, value)

			continue
		}

		err := c.SetToDefault(name)
		if err != nil {
			return err
		}
	}

	return nil
}

// Default returns a [Source] holding only the [Builtin] flags.
func Default() *Source {
	s := &Source{
		defaults:    make(map[string]string),
		setDefaults: make(map[string]string),
	}

	for _, def := range Builtin() {
		s.defaults[def.Name] = def.Default
		s.setDefaults[def.Name] = def.Set
	}

	return s
}
