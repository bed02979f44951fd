package project

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidatePatterns reports the first malformed doublestar glob, labelled
// kind[i]. The error wraps doublestar.ErrBadPattern.
func ValidatePatterns(kind string, patterns []string) error {
	for i, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%s[%d] %q: %w", kind, i, p, doublestar.ErrBadPattern)
		}
	}
	return nil
}
