package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stripgen/internal/driver"
	"stripgen/internal/normalize"
	"stripgen/internal/observ"
	"stripgen/internal/project"
)

// errWouldChange is returned by check when some output is not normalized yet.
var errWouldChange = errors.New("some files are not normalized")

type stripFlags struct {
	out        string
	encoding   string
	generators []string
	include    []string
	exclude    []string
	jobs       int
	cache      bool
	format     string
	ui         string
}

var (
	stripOpts stripFlags
	checkOpts stripFlags
)

var stripCmd = &cobra.Command{
	Use:   "strip [flags] <path>...",
	Short: "Strip generator headers in place or into --out",
	Long: `Strip walks the given files and directories and removes run-specific
content (generator version, timestamps) from recognized generator headers.
Unrecognized files are copied unchanged when --out is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStrip(cmd, args, &stripOpts, false)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] <path>...",
	Short: "Report files whose generator headers are not stripped yet",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStrip(cmd, args, &checkOpts, true)
	},
}

func init() {
	addStripFlags(stripCmd, &stripOpts)
	addStripFlags(checkCmd, &checkOpts)
}

func addStripFlags(cmd *cobra.Command, f *stripFlags) {
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write results below this directory instead of in place")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "source file encoding (default from stripgen.toml or UTF-8)")
	cmd.Flags().StringArrayVarP(&f.generators, "generator", "g", nil, "restrict to these signatures, in order (repeatable)")
	cmd.Flags().StringArrayVar(&f.include, "include", nil, "glob selecting files when walking directories (repeatable)")
	cmd.Flags().StringArrayVar(&f.exclude, "exclude", nil, "glob skipping files when walking directories (repeatable)")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "max parallel files (0=auto)")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "reuse results from the disk cache")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format (text|json)")
	cmd.Flags().StringVar(&f.ui, "ui", "auto", "progress UI (auto|on|off)")
}

// resolveStripOptions merges flags over the manifest. Only flags set on the
// command line override manifest values.
func resolveStripOptions(cmd *cobra.Command, manifest *project.Manifest, f *stripFlags) (driver.StripOptions, error) {
	cfg := manifest.Config.Strip
	flags := cmd.Flags()
	if flags.Changed("encoding") {
		cfg.Encoding = f.encoding
	}
	if flags.Changed("generator") {
		cfg.Generators = f.generators
	}
	if flags.Changed("include") {
		cfg.Include = f.include
	}
	if flags.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if flags.Changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if flags.Changed("cache") {
		cfg.Cache = f.cache
	}
	if cfg.Jobs < 0 {
		return driver.StripOptions{}, fmt.Errorf("--jobs must not be negative")
	}

	resolved := &project.Manifest{Path: manifest.Path, Root: manifest.Root, Config: manifest.Config}
	resolved.Config.Strip = cfg

	sigs, err := resolved.Signatures()
	if err != nil {
		return driver.StripOptions{}, err
	}
	enc, err := resolved.Encoding()
	if err != nil {
		return driver.StripOptions{}, err
	}

	outDir := resolved.OutDir()
	if flags.Changed("out") {
		outDir = strings.TrimSpace(f.out)
	}

	opts := driver.StripOptions{
		Signatures: sigs,
		Encoding:   enc,
		Include:    resolved.Include(),
		Exclude:    resolved.Exclude(),
		OutDir:     outDir,
		Jobs:       cfg.Jobs,
	}
	if cfg.Cache {
		dir, err := driver.CacheDir("stripgen")
		if err != nil {
			return driver.StripOptions{}, fmt.Errorf("cache: %w", err)
		}
		if opts.Cache, err = driver.OpenDiskCache(dir); err != nil {
			return driver.StripOptions{}, fmt.Errorf("cache: %w", err)
		}
	}
	return opts, nil
}

func runStrip(cmd *cobra.Command, args []string, f *stripFlags, check bool) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	format, err := parseOutputFormat(f.format)
	if err != nil {
		return err
	}
	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}

	stop, err := instrument(cmd, g)
	if err != nil {
		return err
	}
	defer stop()

	timer := observ.NewTimer()

	doneConfig := timer.Start("config")
	manifest, found, err := loadProjectManifest("")
	if err != nil {
		doneConfig("")
		return err
	}
	opts, err := resolveStripOptions(cmd, manifest, f)
	note := "defaults"
	if found {
		note = manifest.Path
	}
	doneConfig(note)
	if err != nil {
		return err
	}
	opts.Check = check

	title := "strip"
	if check {
		title = "check"
	}
	doneStrip := timer.Start(title)
	var results []driver.StripResult
	if shouldUseTUI(mode, format, g.quiet) {
		results, err = runStripWithUI(cmd.Context(), title, args, opts)
	} else {
		results, err = driver.StripPaths(cmd.Context(), args, opts)
	}
	doneStrip(fmt.Sprintf("%d files", len(results)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rep := stripReport{
		Check:    check,
		Encoding: normalize.EncodingName(opts.Encoding),
		Results:  results,
	}
	if g.timings {
		r := timer.Report()
		rep.Timings = &r
	}
	switch format {
	case formatJSON:
		if err := renderStripJSON(out, rep); err != nil {
			return err
		}
	default:
		renderStripText(out, rep, g.quiet)
		if g.timings {
			_ = timer.WriteSummary(cmd.ErrOrStderr())
		}
	}

	failed := reportFailures(cmd.ErrOrStderr(), title, results)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	if check && driver.Summarize(results).Changed > 0 {
		return errWouldChange
	}
	return nil
}

// displayPath shortens p relative to the working directory when possible.
func displayPath(p string) string {
	wd, err := os.Getwd()
	if err != nil || !filepath.IsAbs(p) {
		return p
	}
	if rel, err := filepath.Rel(wd, p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return p
}
