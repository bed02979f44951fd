package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"stripgen/internal/prof"
	"stripgen/internal/trace"
)

// globalFlags holds the persistent flags of the root command.
type globalFlags struct {
	quiet       bool
	timings     bool
	traceOut    string
	traceLevel  string
	traceFormat string
	cpuProfile  string
	memProfile  string
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var (
		g    globalFlags
		errs []error
	)
	str := func(name string, dst *string) {
		v, err := pf.GetString(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("read --%s: %w", name, err))
		}
		*dst = v
	}
	flag := func(name string, dst *bool) {
		v, err := pf.GetBool(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("read --%s: %w", name, err))
		}
		*dst = v
	}
	flag("quiet", &g.quiet)
	flag("timings", &g.timings)
	str("trace", &g.traceOut)
	str("trace-level", &g.traceLevel)
	str("trace-format", &g.traceFormat)
	str("cpu-profile", &g.cpuProfile)
	str("mem-profile", &g.memProfile)
	return g, errors.Join(errs...)
}

// tracerFor builds the tracer selected by the trace flags.
func (g globalFlags) tracerFor() (trace.Tracer, error) {
	level, err := trace.ParseLevel(g.traceLevel)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает пофайловый трейс
	if level == trace.LevelOff && g.traceOut != "" {
		level = trace.LevelFile
	}
	format, err := trace.ParseFormat(g.traceFormat)
	if err != nil {
		return nil, err
	}
	return trace.New(trace.Config{Level: level, Format: format, OutputPath: g.traceOut})
}

// instrument starts profiling and attaches a tracer to the command context.
// The returned stop must run once the command is finished.
func instrument(cmd *cobra.Command, g globalFlags) (stop func(), err error) {
	session, err := prof.Start(prof.Options{CPUPath: g.cpuProfile, HeapPath: g.memProfile})
	if err != nil {
		return nil, fmt.Errorf("start profiling: %w", err)
	}
	tracer, err := g.tracerFor()
	if err != nil {
		_ = session.Stop()
		return nil, err
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	errOut := cmd.ErrOrStderr()
	return func() {
		warn(errOut, "trace", tracer.Close())
		warn(errOut, "profile", session.Stop())
	}, nil
}

func warn(w io.Writer, what string, err error) {
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", what, err)
	}
}
