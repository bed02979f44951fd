package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"stripgen/internal/driver"
)

func TestTruncateKeepsTail(t *testing.T) {
	path := "src/main/generated/com/example/ObjectFactory.java"
	got := truncate(path, 24)
	if runewidth.StringWidth(got) != 24 {
		t.Fatalf("expected width 24, got %d (%q)", runewidth.StringWidth(got), got)
	}
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "ObjectFactory.java") {
		t.Fatalf("unexpected truncation %q", got)
	}
	if truncate("short", 24) != "short" {
		t.Fatal("short values must be kept")
	}
}

func TestProgressModelCountsFinalStatuses(t *testing.T) {
	m := NewProgressModel("strip", []string{"a", "b"}, nil).(*progressModel)
	m.applyEvent(driver.Event{File: "a", Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "a", Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b", Status: driver.StatusError})
	// repeated final event must not double count
	m.applyEvent(driver.Event{File: "b", Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "c", Status: driver.StatusCached})

	if m.finished != 3 || m.failed != 1 || len(m.items) != 3 {
		t.Fatalf("unexpected counters finished=%d failed=%d items=%d", m.finished, m.failed, len(m.items))
	}
	if m.percent() != 1.0 {
		t.Fatalf("expected full progress, got %v", m.percent())
	}
	view := m.View()
	if !strings.Contains(view, "3/3") || !strings.Contains(view, "1 failed") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestProgressModelCapsVisibleFiles(t *testing.T) {
	files := make([]string, 0, maxVisible+5)
	for i := range maxVisible + 5 {
		files = append(files, strings.Repeat("x", i+1))
	}
	m := NewProgressModel("strip", files, nil).(*progressModel)
	last := files[len(files)-1]
	m.applyEvent(driver.Event{File: last, Status: driver.StatusError})

	vis := m.visible()
	if len(vis) != maxVisible || vis[0].path != last {
		t.Fatalf("failed file should be listed first, got %d items starting with %q", len(vis), vis[0].path)
	}
	if !strings.Contains(m.View(), "... 5 more") {
		t.Fatalf("expected hidden summary:\n%s", m.View())
	}
}
