package driver

import (
	"time"

	"golang.org/x/text/encoding"

	"stripgen/internal/normalize"
)

// Stage describes what the driver is doing with a file.
type Stage string

const (
	// StageScan is path expansion.
	StageScan Stage = "scan"
	// StageStrip is header normalization.
	StageStrip Stage = "strip"
	// StageCheck is header normalization without writing.
	StageCheck Stage = "check"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file is done.
	StatusDone Status = "done"
	// StatusCached indicates the output was already up to date.
	StatusCached Status = "cached"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole batch when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// StripOptions configures StripPaths.
type StripOptions struct {
	Signatures []*normalize.Signature
	Encoding   encoding.Encoding
	// Include and Exclude are doublestar globs applied when walking
	// directories, to the path below the walked root and to the base name.
	// Explicit file arguments are always processed.
	Include []string
	Exclude []string
	// OutDir mirrors outputs below this directory; empty rewrites in place.
	OutDir string
	// Check reports what would change without writing anything.
	Check    bool
	Jobs     int
	Cache    *DiskCache
	Progress ProgressSink
}

// StripResult is the outcome for one input file.
type StripResult struct {
	Path      string // входной файл
	Output    string // куда пишем (или писали бы в режиме check)
	Outcome   normalize.Outcome
	Signature string
	// Changed reports that Output differs (or would differ) from the
	// normalized bytes before the run.
	Changed bool
	Cached  bool
	Dropped int
	Elapsed time.Duration
	Err     error
}

// Failed reports whether any result carries an error.
func Failed(results []StripResult) bool {
	for i := range results {
		if results[i].Err != nil {
			return true
		}
	}
	return false
}

// Summary counts results by kind.
type Summary struct {
	Files     int
	Rewritten int
	Copied    int
	Changed   int
	Cached    int
	Errors    int
}

// Summarize builds a Summary over results.
func Summarize(results []StripResult) Summary {
	s := Summary{Files: len(results)}
	for i := range results {
		r := &results[i]
		switch {
		case r.Err != nil:
			s.Errors++
			continue
		case r.Outcome == normalize.OutcomeRewritten:
			s.Rewritten++
		default:
			s.Copied++
		}
		if r.Changed {
			s.Changed++
		}
		if r.Cached {
			s.Cached++
		}
	}
	return s
}
