// Package profile adds runtime profiling flags to a command.
//
// The CPU profile covers the whole command run; heap and goroutine profiles
// are snapshots taken when the run ends. Wrap command execution with
// [Profiler.Start] and [Profiler.Stop]:
//
//	cfg := profile.NewConfig()
//	p := cfg.NewProfiler()
//
//	rootCmd := &cobra.Command{
//	    PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
//	        return p.Start()
//	    },
//	}
//
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	err := rootCmd.ExecuteContext(ctx)
//	stopErr := p.Stop()
package profile
