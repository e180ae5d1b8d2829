package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags names the log flags gmdoc registers. [NewConfig] uses "log-level"
// and "log-format".
type Flags struct {
	Level  string
	Format string
}

// NewConfig returns a [Config] that registers its flags under these names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds the log level and format chosen on the gmdoc command line.
//
// Per-script warnings are the main diagnostic output of an extraction, so
// the level defaults to warn; raise it to info to also see the extraction
// summary, or to debug to follow each script. The format defaults to auto,
// which writes text when the log output is a terminal and logfmt otherwise.
type Config struct {
	Level  string
	Format string
	Flags  Flags
}

// NewConfig returns a [Config] using the "log-level" and "log-format" flag
// names. Its fields stay empty until [Config.RegisterFlags] applies the
// warn and auto defaults or the caller sets them.
func NewConfig() *Config {
	f := Flags{
		Level:  "log-level",
		Format: "log-format",
	}

	return f.NewConfig()
}

// RegisterFlags adds the level and format flags to flags. gmdoc passes its
// root persistent flags so every subcommand accepts them.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, string(LevelWarn),
		fmt.Sprintf("log level, one of: %s", GetAllLevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, string(FormatAuto),
		fmt.Sprintf("log format, one of: %s", GetAllFormatStrings()))
}

// RegisterCompletions completes the level and format flags of cmd with the
// fixed lists of valid values.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-level completion: %w", err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(GetAllFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-format completion: %w", err)
	}

	return nil
}

// NewHandler returns the handler gmdoc logs through, writing to w. A level
// or format outside the lists shown in the flag help returns
// [ErrInvalidArgument].
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandlerFromStrings(w, c.Level, c.Format)
}
