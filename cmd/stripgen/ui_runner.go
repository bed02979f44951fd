package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"stripgen/internal/driver"
	"stripgen/internal/ui"
)

type stripOutcome struct {
	results []driver.StripResult
	err     error
}

// runStripWithUI runs StripPaths in the background while a Bubble Tea
// program renders its progress events.
func runStripWithUI(ctx context.Context, title string, paths []string, opts driver.StripOptions) ([]driver.StripResult, error) {
	return stripWithView(ctx, paths, opts, 256, func(events <-chan driver.Event) error {
		model := ui.NewProgressModel(title, nil, events)
		_, err := tea.NewProgram(model, tea.WithOutput(os.Stdout)).Run()
		return err
	})
}

// stripWithView feeds the progress events of a StripPaths run to view. Once
// view returns the run is cancelled, so quitting the view early stops the
// batch; files already processed keep their results.
func stripWithView(ctx context.Context, paths []string, opts driver.StripOptions, buffer int, view func(<-chan driver.Event) error) ([]driver.StripResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, buffer)
	outcomeCh := make(chan stripOutcome, 1)
	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.StripPaths(ctx, paths, opts)
		outcomeCh <- stripOutcome{results: res, err: err}
		close(events)
	}()

	viewErr := view(events)
	cancel()
	// дочитываем канал, чтобы драйвер не завис на отправке
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if viewErr != nil {
		return outcome.results, viewErr
	}
	return outcome.results, outcome.err
}
