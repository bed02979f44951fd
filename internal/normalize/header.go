package normalize

import "strings"

const bom = "\uFEFF"

// line is one physical line with its terminator kept apart.
type line struct {
	text string
	eol  string // "\n", "\r\n", "\r" or "" on the last line
}

// splitLines cuts s into lines without touching line-ending style.
// Joining text+eol of every line reproduces s exactly.
func splitLines(s string) []line {
	out := make([]line, 0, strings.Count(s, "\n")+1)
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			out = append(out, line{text: s[start:i], eol: "\n"})
			start = i + 1
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				out = append(out, line{text: s[start:i], eol: "\r\n"})
				i++
			} else {
				out = append(out, line{text: s[start:i], eol: "\r"})
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, line{text: s[start:]})
	}
	return out
}

func joinLines(lines []line) string {
	size := 0
	for _, ln := range lines {
		size += len(ln.text) + len(ln.eol)
	}
	var b strings.Builder
	b.Grow(size)
	for _, ln := range lines {
		b.WriteString(ln.text)
		b.WriteString(ln.eol)
	}
	return b.String()
}

// headerLine locates the comment body inside one header line.
//
//	text[:bodyStart]        leader: indentation, comment opener, spacing
//	text[bodyStart:bodyEnd] body, surrounding whitespace excluded
//	text[closeAt:]          block closer "*/", or empty
type headerLine struct {
	index     int
	bodyStart int
	bodyEnd   int
	closeAt   int
}

func (h headerLine) body(text string) string {
	return text[h.bodyStart:h.bodyEnd]
}

// replaceBody keeps the leader and any block closer and puts body in between.
// Whitespace trailing the original body goes away with it.
func (h headerLine) replaceBody(text, body string) string {
	if h.closeAt == len(text) {
		return text[:h.bodyStart] + body
	}
	return text[:h.bodyStart] + body + " " + text[h.closeAt:]
}

// scanHeader returns the leading contiguous comment region of a file: "//"
// lines and "/* */" blocks starting at the first line. A blank line, code, or
// code trailing a block closer ends the region.
func scanHeader(lines []line) []headerLine {
	var out []headerLine
	inBlock := false
	for i, ln := range lines {
		text := ln.text
		pos := 0
		if i == 0 && strings.HasPrefix(text, bom) {
			pos = len(bom)
		}
		pos = skipSpace(text, pos)

		var contentStart int
		if inBlock {
			contentStart = pos
			// conventional " * " continuation, but not the closer itself
			for contentStart < len(text) && text[contentStart] == '*' && !strings.HasPrefix(text[contentStart:], "*/") {
				contentStart++
			}
		} else {
			switch {
			case strings.HasPrefix(text[pos:], "//"):
				contentStart = pos + 2
				for contentStart < len(text) && text[contentStart] == '/' {
					contentStart++
				}
				out = append(out, lineCommentHeader(i, text, contentStart))
				continue
			case strings.HasPrefix(text[pos:], "/*"):
				inBlock = true
				contentStart = pos + 2
				for contentStart < len(text) && text[contentStart] == '*' && !strings.HasPrefix(text[contentStart:], "*/") {
					contentStart++
				}
			default:
				return out
			}
		}

		closeAt := len(text)
		if idx := strings.Index(text[contentStart:], "*/"); idx >= 0 {
			closeAt = contentStart + idx
			if strings.TrimSpace(text[closeAt+2:]) != "" {
				return out
			}
			inBlock = false
		}
		out = append(out, blockHeader(i, text, contentStart, closeAt))
	}
	return out
}

func lineCommentHeader(index int, text string, contentStart int) headerLine {
	start := skipSpace(text, contentStart)
	end := len(strings.TrimRight(text, " \t"))
	if end < start {
		end = start
	}
	return headerLine{index: index, bodyStart: start, bodyEnd: end, closeAt: len(text)}
}

func blockHeader(index int, text string, contentStart, closeAt int) headerLine {
	start := skipSpace(text[:closeAt], contentStart)
	end := len(strings.TrimRight(text[:closeAt], " \t"))
	if end < start {
		end = start
	}
	return headerLine{index: index, bodyStart: start, bodyEnd: end, closeAt: closeAt}
}

func skipSpace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	return pos
}
