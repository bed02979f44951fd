package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersionJSONFull(t *testing.T) {
	var buf bytes.Buffer
	info := buildInfo{Tool: "stripgen", Version: "1.2.3", GitCommit: "abc123", GoVersion: "go1.25.1", Signatures: []string{"xjc", "wsimport"}}
	if err := writeVersionJSON(&buf, info.filter(true, true, true)); err != nil {
		t.Fatal(err)
	}
	var got buildInfo
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.GitCommit != "abc123" || got.BuildDate != "unknown" || got.GoVersion != "go1.25.1" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if len(got.Signatures) != 2 {
		t.Fatalf("--full should list signatures, got %v", got.Signatures)
	}
}

func TestVersionFilterDropsUnrequested(t *testing.T) {
	got := currentBuild().filter(false, false, false)
	if got.GitCommit != "" || got.BuildDate != "" || got.GoVersion != "" || got.Signatures != nil {
		t.Fatalf("expected bare version, got %+v", got)
	}
}

func TestVersionPrettyHint(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	writeVersionPretty(&buf, currentBuild().filter(false, false, false))
	out := buf.String()
	if !strings.HasPrefix(out, "stripgen ") || !strings.Contains(out, "--full") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCurrentBuildListsBuiltins(t *testing.T) {
	if len(currentBuild().Signatures) == 0 {
		t.Fatal("expected built-in signatures")
	}
}
