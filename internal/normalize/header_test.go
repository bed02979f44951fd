package normalize

import "testing"

func TestSplitLinesRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"a\n",
		"a\r\nb\rc\n\n",
		"\r\r\n\n",
		"no terminator at end\nlast",
	}
	for _, in := range inputs {
		if got := joinLines(splitLines(in)); got != in {
			t.Fatalf("round trip of %q gave %q", in, got)
		}
	}
}

func TestSplitLinesTerminators(t *testing.T) {
	lines := splitLines("a\r\nb\rc\nd")
	want := []line{{"a", "\r\n"}, {"b", "\r"}, {"c", "\n"}, {"d", ""}}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: want %+v, got %+v", i, want[i], lines[i])
		}
	}
}

func TestScanHeader(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		bodies []string
	}{
		{
			name:   "line comments",
			src:    "//\n// first \n//second\n\npackage a\n",
			bodies: []string{"", "first", "second"},
		},
		{
			name:   "indented line comments",
			src:    "  //  spaced\t\n\t// tab\ncode\n",
			bodies: []string{"spaced", "tab"},
		},
		{
			name:   "block comment",
			src:    "/*\n * one\n *two\n */\npackage a\n",
			bodies: []string{"", "one", "two", ""},
		},
		{
			name:   "javadoc opener and inline closer",
			src:    "/** Generated */\n// next\nx\n",
			bodies: []string{"Generated", "next"},
		},
		{
			name:   "blank line inside block",
			src:    "/*\n\n kept\n*/\n\n// after blank\n",
			bodies: []string{"", "", "kept", ""},
		},
		{
			name:   "code after closer ends header",
			src:    "// one\n/* two */ package a;\n",
			bodies: []string{"one"},
		},
		{
			name:   "no header",
			src:    "package a\n// late\n",
			bodies: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := splitLines(tt.src)
			header := scanHeader(lines)
			if len(header) != len(tt.bodies) {
				t.Fatalf("expected %d header lines, got %d", len(tt.bodies), len(header))
			}
			for i, h := range header {
				if got := h.body(lines[h.index].text); got != tt.bodies[i] {
					t.Fatalf("line %d: want body %q, got %q", i, tt.bodies[i], got)
				}
			}
		})
	}
}

func TestReplaceBody(t *testing.T) {
	tests := []struct {
		src  string
		line int
		want string
	}{
		{"// Tool v1.0   ", 0, "// X"},
		{"\t//   Tool v1.0", 0, "\t//   X"},
		{"/*\n * Tool v1.0\n */", 1, " * X"},
		{"/* Tool v1.0 */", 0, "/* X */"},
		{"/* Tool v1.0*/", 0, "/* X */"},
	}
	for _, tt := range tests {
		lines := splitLines(tt.src)
		var found bool
		for _, h := range scanHeader(lines) {
			if h.index != tt.line {
				continue
			}
			found = true
			if got := h.replaceBody(lines[h.index].text, "X"); got != tt.want {
				t.Fatalf("%q: want %q, got %q", tt.src, tt.want, got)
			}
		}
		if !found {
			t.Fatalf("%q: line %d is not part of the header", tt.src, tt.line)
		}
	}
}
