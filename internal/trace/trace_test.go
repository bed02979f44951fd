package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "file", "debug"} {
		lvl, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if lvl.String() != name {
			t.Fatalf("round trip of %q gave %q", name, lvl.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelFiltering(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeFile, KindSpanBegin) {
		t.Fatal("phase level must not emit file spans")
	}
	if !LevelPhase.ShouldEmit(ScopeFile, KindError) {
		t.Fatal("errors pass every enabled level")
	}
	if !LevelFile.ShouldEmit(ScopeFile, KindSpanEnd) {
		t.Fatal("file level must emit file spans")
	}
	if LevelOff.ShouldEmit(ScopeDriver, KindError) {
		t.Fatal("off emits nothing")
	}
}

func TestFromContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop tracer")
	}
	// Nop spans are safe to use
	s := Begin(context.Background(), ScopeDriver, "x")
	s.WithExtra("k", "v")
	if s.End("") != 0 {
		t.Fatal("nop span should report zero duration")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelFile, Format: FormatText, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithTracer(context.Background(), tr)

	root := Begin(ctx, ScopeDriver, "strip")
	fileCtx := WithSpan(ctx, root)
	Begin(fileCtx, ScopeFile, "file:a.java").WithExtra("outcome", "copied").WithExtra("bytes", "10").End("")
	Point(fileCtx, ScopeDetail, "cache", "hidden at file level")
	Error(fileCtx, "file:b.java", errors.New("boom"))
	root.End("2 files")

	out := buf.String()
	for _, want := range []string{"→ strip", "  → file:a.java", "{bytes=10, outcome=copied}", "! file:b.java (boom)", "(2 files)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in trace output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "cache") {
		t.Fatalf("detail events must be filtered at file level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)
	Point(ctx, ScopeDetail, "cache", "miss")

	var decoded map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &decoded); err != nil {
		t.Fatalf("invalid NDJSON %q: %v", buf.String(), err)
	}
	if decoded["name"] != "cache" || decoded["kind"] != "point" || decoded["scope"] != "detail" {
		t.Fatalf("unexpected event %v", decoded)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("expected Nop, got %v, %v", tr, err)
	}
}
