package profile

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	CPUProfile       string
	HeapProfile      string
	GoroutineProfile string
	MemProfileRate   string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds profiling configuration. A zero-value Config has all profiles
// disabled and leaves the runtime sampling rate alone.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProfiler] to create a [Profiler].
type Config struct {
	Flags Flags

	// Output paths (empty = disabled).
	CPUProfile       string
	HeapProfile      string
	GoroutineProfile string

	// MemProfileRate is applied to [runtime.MemProfileRate] when positive.
	MemProfileRate int
}

// NewConfig creates a new [Config] with default flag names and all profiles
// disabled.
func NewConfig() *Config {
	f := Flags{
		CPUProfile:       "cpu-profile",
		HeapProfile:      "heap-profile",
		GoroutineProfile: "goroutine-profile",
		MemProfileRate:   "mem-profile-rate",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPUProfile, c.Flags.CPUProfile, "", "write CPU profile to file")
	flags.StringVar(&c.HeapProfile, c.Flags.HeapProfile, "", "write heap profile to file")
	flags.StringVar(&c.GoroutineProfile, c.Flags.GoroutineProfile, "", "write goroutine profile to file")
	flags.IntVar(&c.MemProfileRate, c.Flags.MemProfileRate, 524288, "memory profile rate (bytes per sample)")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
// Path flags keep the default file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.MemProfileRate, noFileComp)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.MemProfileRate, err)
	}

	return nil
}

// NewProfiler creates a new [Profiler] using this [Config].
func (c *Config) NewProfiler() *Profiler {
	return &Profiler{
		config: c,
	}
}
