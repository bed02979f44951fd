package observ

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Timer collects wall-clock durations of the steps of one command run.
// The zero value is not usable; a nil *Timer discards everything.
type Timer struct {
	mu      sync.Mutex
	created time.Time
	steps   []step
}

type step struct {
	name  string
	note  string
	began time.Time
	took  time.Duration
	open  bool
}

// NewTimer returns a Timer whose wall clock starts now.
func NewTimer() *Timer {
	return &Timer{created: time.Now()}
}

// Start opens a step. Calling the returned func closes it with an optional
// note; later calls are ignored.
func (t *Timer) Start(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	t.mu.Lock()
	t.steps = append(t.steps, step{name: name, began: time.Now(), open: true})
	idx := len(t.steps) - 1
	t.mu.Unlock()

	return func(note string) {
		t.mu.Lock()
		defer t.mu.Unlock()
		s := &t.steps[idx]
		if !s.open {
			return
		}
		s.open = false
		s.took = time.Since(s.began)
		s.note = note
	}
}

// StepReport is one step in milliseconds.
type StepReport struct {
	Name string  `json:"name"`
	MS   float64 `json:"ms"`
	Note string  `json:"note,omitempty"`
}

// Report - снимок таймера для --timings и JSON вывода.
type Report struct {
	WallMS float64      `json:"wall_ms"`
	Steps  []StepReport `json:"steps"`
}

// Report snapshots the closed steps. Open steps are reported with the time
// elapsed so far.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	rep := Report{WallMS: millis(time.Since(t.created))}
	for _, s := range t.steps {
		took := s.took
		if s.open {
			took = time.Since(s.began)
		}
		rep.Steps = append(rep.Steps, StepReport{Name: s.name, MS: millis(took), Note: s.note})
	}
	return rep
}

// WriteSummary prints the report as an aligned block.
func (t *Timer) WriteSummary(w io.Writer) error {
	rep := t.Report()
	width := len("wall")
	for _, s := range rep.Steps {
		width = max(width, len(s.Name))
	}
	if _, err := fmt.Fprintln(w, "timings:"); err != nil {
		return err
	}
	for _, s := range rep.Steps {
		line := fmt.Sprintf("  %-*s %8.2f ms", width, s.Name, s.MS)
		if s.Note != "" {
			line += "  (" + s.Note + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-*s %8.2f ms\n", width, "wall", rep.WallMS)
	return err
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
