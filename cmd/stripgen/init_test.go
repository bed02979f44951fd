package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stripgen/internal/normalize"
	"stripgen/internal/project"
)

func TestWriteDefaultManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gen")
	path, err := writeDefaultManifest(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	m, err := project.Load(path)
	if err != nil {
		t.Fatalf("generated manifest does not load: %v", err)
	}
	if got := strings.Join(m.Config.Strip.Generators, ","); got != normalize.SunJAXB+","+normalize.GlassfishJAXB {
		t.Fatalf("unexpected generators %q", got)
	}

	if _, err := writeDefaultManifest(dir, false); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("expected already initialized error, got %v", err)
	}
	if _, err := writeDefaultManifest(dir, true); err != nil {
		t.Fatalf("force overwrite: %v", err)
	}
}

func TestWriteDefaultManifestRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := writeDefaultManifest(file, false); err == nil {
		t.Fatal("expected not a directory error")
	}
}

func TestRenderSignatureTable(t *testing.T) {
	m := project.Default()
	m.Config.Strip.Generators = []string{normalize.GlassfishJAXB}
	m.Config.Signatures = []project.SignatureConfig{{
		Name:   "acme-gen",
		Marker: "Generated by acme-gen",
		Strip:  []string{`Generated on: .*`},
	}}
	rows, err := collectSignatureRows(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[2].Source != "manifest" || rows[0].Source != "builtin" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows[0].Selected || !rows[1].Selected || rows[2].Selected {
		t.Fatalf("unexpected selection %+v", rows)
	}

	var buf bytes.Buffer
	renderSignatureTable(&buf, rows)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got:\n%s", buf.String())
	}
	col := strings.Index(lines[0], "SOURCE")
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line[col:], "builtin") && !strings.HasPrefix(line[col:], "manifest") {
			t.Fatalf("misaligned row %q", line)
		}
	}
	if !strings.HasPrefix(lines[2], "* "+normalize.GlassfishJAXB) {
		t.Fatalf("selected row not marked: %q", lines[2])
	}
}
