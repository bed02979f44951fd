package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidSignature is returned when a signature definition cannot be compiled.
var ErrInvalidSignature = errors.New("invalid signature")

// versionSuffix accepts the version stamp generators append to their marker,
// e.g. ", v2.2.11" or " v3.0.0-b170531.0717".
const versionSuffix = `(?:,?\s+v?[0-9][0-9A-Za-z._+\-]*)?`

// SignatureSpec is the uncompiled form of a Signature, as written in a manifest.
type SignatureSpec struct {
	Name   string
	Marker string
	// Detect is matched against the comment body of a header line.
	// Empty means DefaultDetectPattern(Marker).
	Detect string
	// Strip lists patterns for header lines that are dropped entirely.
	Strip []string
}

// Signature identifies a code generator by the marker line it writes into the
// leading comment of generated files. It is immutable once built.
type Signature struct {
	Name   string
	Marker string

	detect   *regexp.Regexp
	variable []*regexp.Regexp
	source   SignatureSpec
}

// DefaultDetectPattern returns a pattern matching marker optionally followed by
// a version stamp, and nothing else.
func DefaultDetectPattern(marker string) string {
	return "^" + regexp.QuoteMeta(marker) + versionSuffix + "$"
}

// NewSignature validates spec and compiles its patterns.
func NewSignature(spec SignatureSpec) (*Signature, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidSignature)
	}
	marker := strings.TrimSpace(spec.Marker)
	if marker == "" {
		return nil, fmt.Errorf("%w: %s: missing marker", ErrInvalidSignature, name)
	}

	pattern := spec.Detect
	if pattern == "" {
		pattern = DefaultDetectPattern(marker)
	}
	detect, err := compileAnchored(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: detect %q: %w", ErrInvalidSignature, name, pattern, err)
	}
	// a normalized file must still be recognized by its own signature
	if !detect.MatchString(marker) {
		return nil, fmt.Errorf("%w: %s: detect pattern %q does not accept marker %q", ErrInvalidSignature, name, pattern, marker)
	}

	variable := make([]*regexp.Regexp, 0, len(spec.Strip))
	for _, p := range spec.Strip {
		re, err := compileAnchored(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: strip %q: %w", ErrInvalidSignature, name, p, err)
		}
		if re.MatchString(marker) {
			return nil, fmt.Errorf("%w: %s: strip pattern %q removes the marker", ErrInvalidSignature, name, p)
		}
		variable = append(variable, re)
	}

	return &Signature{
		Name:     name,
		Marker:   marker,
		detect:   detect,
		variable: variable,
		source: SignatureSpec{
			Name:   name,
			Marker: marker,
			Detect: pattern,
			Strip:  append([]string(nil), spec.Strip...),
		},
	}, nil
}

// MustSignature is like NewSignature but panics on error.
func MustSignature(spec SignatureSpec) *Signature {
	sig, err := NewSignature(spec)
	if err != nil {
		panic(err)
	}
	return sig
}

// compileAnchored compiles p so that it must match a whole comment body.
func compileAnchored(p string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + p + ")$")
}

// Matches reports whether body is this generator's marker line.
func (s *Signature) Matches(body string) bool {
	return s.detect.MatchString(body)
}

// IsVariable reports whether body is a header line this generator fills with
// run-specific content.
func (s *Signature) IsVariable(body string) bool {
	for _, re := range s.variable {
		if re.MatchString(body) {
			return true
		}
	}
	return false
}

// Spec returns the definition the signature was built from, with defaults resolved.
func (s *Signature) Spec() SignatureSpec {
	spec := s.source
	spec.Strip = append([]string(nil), s.source.Strip...)
	return spec
}

func (s *Signature) String() string {
	return s.Name
}
