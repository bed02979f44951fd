package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stripgen/internal/driver"
	"stripgen/internal/normalize"
)

const generatedFactory = "//\n" +
	"// This file was generated by the JavaTM Architecture for XML Binding(JAXB) Reference Implementation, v2.2.11\n" +
	"// Generated on: 2016.05.05 at 09:26:23 AM CEST\n" +
	"//\n" +
	"package com.example;\n"

func generatedTree(t *testing.T, n int) string {
	t.Helper()
	root := t.TempDir()
	for i := range n {
		dir := filepath.Join(root, string(rune('a'+i)))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "ObjectFactory.java"), []byte(generatedFactory), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func viewOptions() driver.StripOptions {
	return driver.StripOptions{
		Signatures: normalize.Builtin().All(),
		Include:    []string{"ObjectFactory.java"},
		Jobs:       1,
	}
}

func TestStripWithViewRunsToCompletion(t *testing.T) {
	root := generatedTree(t, 3)
	seen := 0
	results, err := stripWithView(context.Background(), []string{root}, viewOptions(), 0, func(events <-chan driver.Event) error {
		for range events {
			seen++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("stripWithView: %v", err)
	}
	if len(results) != 3 || seen == 0 {
		t.Fatalf("got %d results and %d events", len(results), seen)
	}
}

func TestStripWithViewQuitCancelsBatch(t *testing.T) {
	root := generatedTree(t, 3)
	// the view leaves before reading anything, the driver is still queueing
	results, err := stripWithView(context.Background(), []string{root}, viewOptions(), 0, func(<-chan driver.Event) error {
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for _, r := range results {
		if r.Changed {
			t.Fatalf("%s was processed after the view quit", r.Path)
		}
	}
	data, err := os.ReadFile(filepath.Join(root, "a", "ObjectFactory.java"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != generatedFactory {
		t.Fatal("file rewritten after the view quit")
	}
}

func TestStripWithViewReturnsViewError(t *testing.T) {
	root := generatedTree(t, 1)
	boom := errors.New("terminal gone")
	_, err := stripWithView(context.Background(), []string{root}, viewOptions(), 8, func(<-chan driver.Event) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected view error, got %v", err)
	}
}
