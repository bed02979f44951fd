package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"stripgen/internal/normalize"
	"stripgen/internal/version"
)

// buildInfo is what `stripgen version` prints. Empty fields are unknown.
type buildInfo struct {
	Tool       string   `json:"tool"`
	Version    string   `json:"version"`
	GitCommit  string   `json:"git_commit,omitempty"`
	BuildDate  string   `json:"build_date,omitempty"`
	GoVersion  string   `json:"go_version,omitempty"`
	Signatures []string `json:"signatures,omitempty"`
}

var versionFlags struct {
	format string
	hash   bool
	date   bool
	full   bool
}

func init() {
	f := versionCmd.Flags()
	f.BoolVar(&versionFlags.hash, "hash", false, "include git commit hash")
	f.BoolVar(&versionFlags.date, "date", false, "include build timestamp")
	f.BoolVar(&versionFlags.full, "full", false, "show every recorded bit of build metadata")
	f.StringVar(&versionFlags.format, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show stripgen build fingerprints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := currentBuild().filter(
			versionFlags.hash || versionFlags.full,
			versionFlags.date || versionFlags.full,
			versionFlags.full,
		)
		switch strings.ToLower(versionFlags.format) {
		case "json":
			return writeVersionJSON(cmd.OutOrStdout(), info)
		case "pretty":
			writeVersionPretty(cmd.OutOrStdout(), info)
			return nil
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFlags.format)
	},
}

// currentBuild collects everything known about this binary. The commit falls
// back to the VCS stamp of the Go toolchain when -ldflags did not set one.
func currentBuild() buildInfo {
	info := buildInfo{
		Tool:       "stripgen",
		Version:    strings.TrimSpace(version.Version),
		GitCommit:  strings.TrimSpace(version.GitCommit),
		BuildDate:  strings.TrimSpace(version.BuildDate),
		GoVersion:  runtime.Version(),
		Signatures: normalize.Builtin().Names(),
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildDate == "":
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

// filter keeps the optional parts that were asked for. Requested but unknown
// values become "unknown".
func (b buildInfo) filter(hash, date, full bool) buildInfo {
	out := buildInfo{Tool: b.Tool, Version: b.Version}
	if hash {
		out.GitCommit = orUnknown(b.GitCommit)
	}
	if date {
		out.BuildDate = orUnknown(b.BuildDate)
	}
	if full {
		out.GoVersion = b.GoVersion
		out.Signatures = b.Signatures
	}
	return out
}

func writeVersionPretty(w io.Writer, b buildInfo) {
	fmt.Fprintf(w, "%s %s\n", b.Tool, version.Colored())
	rows := [][2]string{
		{"commit", b.GitCommit},
		{"built", b.BuildDate},
		{"go", b.GoVersion},
		{"signatures", strings.Join(b.Signatures, ", ")},
	}
	shown := 0
	for _, r := range rows {
		if r[1] != "" {
			fmt.Fprintf(w, "%-11s %s\n", r[0]+":", r[1])
			shown++
		}
	}
	if shown == 0 {
		fmt.Fprintln(w, "set --hash, --date, or --full for more build trivia")
	}
}

func writeVersionJSON(w io.Writer, b buildInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
