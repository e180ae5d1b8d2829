// Package main provides the CLI entry point for gmdoc, a tool that extracts
// script documentation from GameMaker projects.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/gmdoc/gmdoc"
	"go.jacobcolvin.com/gmdoc/log"
	"go.jacobcolvin.com/gmdoc/profile"
	"go.jacobcolvin.com/gmdoc/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// app holds the state shared by the commands of one invocation.
type app struct {
	cfg     *gmdoc.Config
	logCfg  *log.Config
	profCfg *profile.Config
	logger  *slog.Logger
}

// execute runs the command line args and stops profiling afterwards.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{
		cfg:     gmdoc.NewConfig(),
		logCfg:  log.NewConfig(),
		profCfg: profile.NewConfig(),
	}

	prof := a.profCfg.NewProfiler()
	started := false

	rootCmd := &cobra.Command{
		Use:   "gmdoc [flags] <name.project.gmx>",
		Short: "Extract script documentation from a GameMaker project",
		Long: `gmdoc reads a GameMaker project manifest, parses the leading comment of every
script it lists, and writes the resulting documentation tree as JSON or YAML.

Scripts whose file name starts with an underscore are never read. Scripts
flagged "@flags private" are kept in the tree but left out of the method list.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			handler, err := a.logCfg.NewHandler(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			a.logger = slog.New(handler)

			err = prof.Start()
			if err != nil {
				return err
			}

			started = true

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	// Cobra falls back to os.Args for a nil slice.
	if args == nil {
		args = []string{}
	}

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	a.cfg.RegisterFlags(rootCmd.Flags())
	a.logCfg.RegisterFlags(rootCmd.PersistentFlags())
	a.profCfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newSchemaCmd(), newVersionCmd())

	err := errors.Join(
		a.cfg.RegisterCompletions(rootCmd),
		a.logCfg.RegisterCompletions(rootCmd),
		a.profCfg.RegisterCompletions(rootCmd),
	)
	if err != nil {
		fmt.Fprintf(stderr, "register completions: %v\n", err)
	}

	err = rootCmd.ExecuteContext(ctx)

	if started {
		stopErr := prof.Stop()
		if stopErr != nil {
			err = errors.Join(err, fmt.Errorf("stop profiling: %w", stopErr))
		}
	}

	return err
}

func (a *app) run(ctx context.Context, stdout io.Writer, manifestPath string) error {
	format, err := a.cfg.OutputFormat()
	if err != nil {
		return err
	}

	ex, err := a.cfg.NewExtractor(gmdoc.WithLogger(a.logger))
	if err != nil {
		return err
	}

	p, err := ex.ExtractFile(ctx, manifestPath)
	if err != nil {
		return err
	}

	a.logger.Info("extracted documentation",
		slog.String("project", p.Name),
		slog.Int("methods", len(p.Methods)),
		slog.Int("warnings", len(p.Warnings)),
	)

	var buf bytes.Buffer

	err = gmdoc.Encode(&buf, p, format, a.cfg.Indent)
	if err != nil {
		return err
	}

	if a.cfg.Output == "" || a.cfg.Output == "-" {
		_, err = stdout.Write(buf.Bytes())
		if err != nil {
			return fmt.Errorf("%w: %w", gmdoc.ErrWriteOutput, err)
		}
	} else {
		err := os.WriteFile(a.cfg.Output, buf.Bytes(), 0o644) //nolint:gosec // Output file is meant to be readable.
		if err != nil {
			return fmt.Errorf("%w: %w", gmdoc.ErrWriteOutput, err)
		}
	}

	if a.cfg.Strict && len(p.Warnings) > 0 {
		return fmt.Errorf("%w: %d script(s), first: %w", gmdoc.ErrWarnings, len(p.Warnings), p.Warnings[0])
	}

	return nil
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the output document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := gmdoc.Schema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("%w: %w", gmdoc.ErrWriteOutput, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
			if err != nil {
				return fmt.Errorf("%w: %w", gmdoc.ErrWriteOutput, err)
			}

			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get())
			if err != nil {
				return fmt.Errorf("%w: %w", gmdoc.ErrWriteOutput, err)
			}

			return nil
		},
	}
}
