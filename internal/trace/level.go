package trace

import (
	"fmt"
	"strings"
)

// Level controls how much of a run is traced.
type Level uint8

const (
	LevelOff   Level = iota // no tracing
	LevelError              // only failed files
	LevelPhase              // driver phases
	LevelFile               // per-file spans
	LevelDebug              // everything
)

var levelNames = [...]string{"off", "error", "phase", "file", "debug"}

// widest scope shown at each level; errors pass any level but off
var levelScope = [...]Scope{
	LevelPhase: ScopePhase,
	LevelFile:  ScopeFile,
	LevelDebug: ScopeDetail,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by Level.String. Empty means off.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return LevelOff, nil
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether an event of scope and kind passes l.
func (l Level) ShouldEmit(scope Scope, kind Kind) bool {
	if l == LevelOff || int(l) >= len(levelNames) {
		return false
	}
	return kind == KindError || scope <= levelScope[l]
}
