package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stripgen/internal/driver"
)

var (
	watchOpts     stripFlags
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <dir>...",
	Short: "Strip generator headers whenever generated files change",
	Long: `Watch strips the given directories once and then keeps running, stripping
files again whenever the generator rewrites them. Stop it with Ctrl+C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	addStripFlags(watchCmd, &watchOpts)
	// прогресс-бар в бесконечном цикле не нужен
	_ = watchCmd.Flags().MarkHidden("ui")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", driver.DefaultDebounce, "wait this long after the last change before stripping")
}

func runWatch(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	format, err := parseOutputFormat(watchOpts.format)
	if err != nil {
		return err
	}

	finish, err := instrument(cmd, g)
	if err != nil {
		return err
	}
	defer finish()

	manifest, _, err := loadProjectManifest("")
	if err != nil {
		return err
	}
	opts, err := resolveStripOptions(cmd, manifest, &watchOpts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	onBatch := func(results []driver.StripResult) {
		rep := stripReport{Results: results}
		if format == formatJSON {
			if err := renderStripJSON(out, rep); err != nil {
				fmt.Fprintf(errOut, "watch: %v\n", err)
			}
		} else if len(results) > 0 {
			renderStripText(out, rep, g.quiet)
		}
		reportFailures(errOut, "watch", results)
	}

	if !g.quiet && format == formatText {
		fmt.Fprintf(errOut, "watching %d directories (Ctrl+C to stop)\n", len(args))
	}
	return driver.Watch(ctx, args, driver.WatchOptions{
		StripOptions: opts,
		Debounce:     watchDebounce,
		OnBatch:      onBatch,
	})
}
