package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler controls one profiling session.
//
// Create instances with [Config.NewProfiler]. The [Config] is read when
// [Profiler.Start] runs, so flags may be parsed after the Profiler is
// created.
type Profiler struct {
	config  *Config
	cpuFile *os.File
}

// Start applies the sampling rate and begins CPU profiling if enabled.
func (p *Profiler) Start() error {
	if p.config.MemProfileRate > 0 {
		runtime.MemProfileRate = p.config.MemProfileRate
	}

	if p.config.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.config.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return errors.Join(fmt.Errorf("starting CPU profile: %w", err), f.Close())
	}

	p.cpuFile = f

	return nil
}

// Stop ends CPU profiling and writes the enabled snapshot profiles. Calling
// Stop without a successful Start only writes snapshots.
func (p *Profiler) Stop() error {
	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("closing CPU profile: %w", err))
		}

		p.cpuFile = nil
	}

	if p.config.HeapProfile != "" {
		runtime.GC()

		errs = append(errs, writeProfile("heap", p.config.HeapProfile))
	}

	if p.config.GoroutineProfile != "" {
		errs = append(errs, writeProfile("goroutine", p.config.GoroutineProfile))
	}

	return errors.Join(errs...)
}

// writeProfile writes the named pprof profile to path.
func writeProfile(name, path string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return fmt.Errorf("unknown profile: %s", name)
	}

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", name, err)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("write %s profile: %w", name, err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("write %s profile: %w", name, err)
	}

	return nil
}
