package gmdoc

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/gmdoc/docflag"
	"go.jacobcolvin.com/gmdoc/rtf"
)

// Flags holds CLI flag names for extraction configuration, allowing callers
// to customize flag names while keeping sensible defaults.
type Flags struct {
	Output         string
	Format         string
	Indent         string
	Jobs           string
	FlagDefs       string
	HelpParagraphs string
	Strict         string
}

// Config holds CLI flag values for extraction configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewExtractor] to create an
// [Extractor].
type Config struct {
	Flags          Flags
	Output         string
	Format         string
	FlagDefs       string
	Indent         int
	Jobs           int
	HelpParagraphs bool
	Strict         bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Output:         "output",
		Format:         "format",
		Indent:         "indent",
		Jobs:           "jobs",
		FlagDefs:       "flag-defs",
		HelpParagraphs: "help-paragraphs",
		Strict:         "strict",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds extraction flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Output, c.Flags.Output, "o", "-",
		"output file path (- for stdout)")
	flags.StringVarP(&c.Format, c.Flags.Format, "f", string(FormatJSON),
		fmt.Sprintf("output format, one of: %s", GetAllFormatStrings()))
	flags.IntVar(&c.Indent, c.Flags.Indent, 2,
		"indentation spaces")
	flags.IntVarP(&c.Jobs, c.Flags.Jobs, "j", 4,
		"number of script files read concurrently")
	flags.StringVar(&c.FlagDefs, c.Flags.FlagDefs, "",
		"YAML file with additional @flags definitions")
	flags.BoolVar(&c.HelpParagraphs, c.Flags.HelpParagraphs, false,
		`translate \par in the help file to a newline`)
	flags.BoolVar(&c.Strict, c.Flags.Strict, false,
		"fail when any script produced a warning")
}

// RegisterCompletions registers shell completions for extraction flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(GetAllFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Format, err)
	}

	err = cmd.MarkFlagFilename(c.Flags.FlagDefs, "yaml", "yml")
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.FlagDefs, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.Indent, c.Flags.Jobs} {
		regErr := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if regErr != nil {
			return fmt.Errorf("registering %s completion: %w", flag, regErr)
		}
	}

	return nil
}

// OutputFormat parses the configured output format.
func (c *Config) OutputFormat() (Format, error) {
	return ParseFormat(c.Format)
}

// NewExtractor creates an [Extractor] using this [Config]. Additional
// options are applied after the configured ones.
func (c *Config) NewExtractor(opts ...Option) (*Extractor, error) {
	src, err := c.flagSource()
	if err != nil {
		return nil, err
	}

	var rtfOpts []rtf.Option
	if c.HelpParagraphs {
		rtfOpts = append(rtfOpts, rtf.WithControlWord("par", "\n"))
	}

	base := []Option{
		WithFlagSource(src),
		WithRTFExtractor(rtf.New(rtfOpts...)),
		WithJobs(c.Jobs),
	}

	return NewExtractor(append(base, opts...)...), nil
}

func (c *Config) flagSource() (*docflag.Source, error) {
	if c.FlagDefs == "" {
		return docflag.Default(), nil
	}

	f, err := os.Open(c.FlagDefs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.

	defs, err := docflag.LoadDefinitions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.FlagDefs, err)
	}

	return docflag.NewSource(defs...)
}
