package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"stripgen/internal/driver"
	"stripgen/internal/normalize"
	"stripgen/internal/observ"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
)

func parseOutputFormat(value string) (outputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "text", "pretty":
		return formatText, nil
	case "json":
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be text or json)", value)
	}
}

type stripReport struct {
	Check    bool
	Encoding string
	Results  []driver.StripResult
	Timings  *observ.Report
}

type fileJSON struct {
	Path      string  `json:"path"`
	Output    string  `json:"output"`
	Outcome   string  `json:"outcome"`
	Signature string  `json:"signature,omitempty"`
	Changed   bool    `json:"changed"`
	Cached    bool    `json:"cached,omitempty"`
	Dropped   int     `json:"dropped,omitempty"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Error     string  `json:"error,omitempty"`
}

type summaryJSON struct {
	Files     int `json:"files"`
	Rewritten int `json:"rewritten"`
	Copied    int `json:"copied"`
	Changed   int `json:"changed"`
	Cached    int `json:"cached"`
	Errors    int `json:"errors"`
}

type stripJSON struct {
	Mode     string         `json:"mode"`
	Encoding string         `json:"encoding"`
	Files    []fileJSON     `json:"files"`
	Summary  summaryJSON    `json:"summary"`
	Timings  *observ.Report `json:"timings,omitempty"`
}

func renderStripJSON(out io.Writer, rep stripReport) error {
	payload := stripJSON{
		Mode:     "strip",
		Encoding: rep.Encoding,
		Files:    make([]fileJSON, 0, len(rep.Results)),
		Timings:  rep.Timings,
	}
	if rep.Check {
		payload.Mode = "check"
	}
	for i := range rep.Results {
		r := &rep.Results[i]
		item := fileJSON{
			Path:      r.Path,
			Output:    r.Output,
			Outcome:   r.Outcome.String(),
			Signature: r.Signature,
			Changed:   r.Changed,
			Cached:    r.Cached,
			Dropped:   r.Dropped,
			ElapsedMS: float64(r.Elapsed.Microseconds()) / 1000,
		}
		if r.Err != nil {
			item.Outcome = "error"
			item.Error = r.Err.Error()
		}
		payload.Files = append(payload.Files, item)
	}
	sum := driver.Summarize(rep.Results)
	payload.Summary = summaryJSON(sum)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// renderStripText prints one line per interesting file and a summary.
// Errors are reported separately by reportFailures.
func renderStripText(out io.Writer, rep stripReport, quiet bool) {
	if quiet {
		return
	}
	for i := range rep.Results {
		r := &rep.Results[i]
		if r.Err != nil {
			continue
		}
		if line := resultLine(r, rep.Check); line != "" {
			fmt.Fprintln(out, line)
		}
	}
	fmt.Fprintln(out, summaryLine(driver.Summarize(rep.Results), rep.Check))
}

func resultLine(r *driver.StripResult, check bool) string {
	path := displayPath(r.Path)
	switch {
	case check && r.Changed:
		return fmt.Sprintf("%s %s", changedColor.Sprint("would change"), path)
	case check:
		return ""
	case r.Cached:
		return fmt.Sprintf("%s %s", cachedColor.Sprint("cached   "), path)
	case r.Outcome == normalize.OutcomeRewritten && r.Changed:
		return fmt.Sprintf("%s %s (%s)", rewrittenColor.Sprint("rewritten"), path, r.Signature)
	case r.Outcome == normalize.OutcomeRewritten:
		return fmt.Sprintf("%s %s (%s)", copiedColor.Sprint("unchanged"), path, r.Signature)
	default:
		return fmt.Sprintf("%s %s", copiedColor.Sprint("copied   "), path)
	}
}

func summaryLine(sum driver.Summary, check bool) string {
	if check {
		if sum.Changed == 0 {
			return fmt.Sprintf("%d files checked, all normalized", sum.Files)
		}
		return fmt.Sprintf("%d files checked, %d would change", sum.Files, sum.Changed)
	}
	parts := []string{
		fmt.Sprintf("%d rewritten", sum.Rewritten),
		fmt.Sprintf("%d copied", sum.Copied),
	}
	if sum.Cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", sum.Cached))
	}
	if sum.Errors > 0 {
		parts = append(parts, errorColor.Sprintf("%d failed", sum.Errors))
	}
	return fmt.Sprintf("%d files: %s", sum.Files, strings.Join(parts, ", "))
}

// reportFailures prints "<cmd>: <err>" per failed file and returns the number
// of failures. Driver errors already start with the file path.
func reportFailures(out io.Writer, name string, results []driver.StripResult) int {
	failed := 0
	for i := range results {
		if results[i].Err == nil {
			continue
		}
		failed++
		fmt.Fprintf(out, "%s: %v\n", name, results[i].Err)
	}
	return failed
}
