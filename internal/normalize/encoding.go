package normalize

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrUnknownEncoding is returned for encoding names no index knows about.
	ErrUnknownEncoding = errors.New("unknown encoding")
	// ErrLossyEncoding is returned when a matched file cannot be decoded and
	// re-encoded without changing its bytes.
	ErrLossyEncoding = errors.New("content does not round-trip through encoding")
)

// DefaultEncoding returns the encoding used when none is configured (UTF-8).
func DefaultEncoding() encoding.Encoding {
	return unicode.UTF8
}

// LookupEncoding resolves an IANA charset name, falling back to WHATWG labels.
// An empty name selects UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultEncoding(), nil
	}
	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if enc, err := index.Encoding(name); err == nil && enc != nil {
			return enc, nil
		}
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// EncodingName returns the preferred MIME name of enc, falling back to its
// IANA name, or "" if it has none.
func EncodingName(enc encoding.Encoding) string {
	if enc == nil {
		enc = DefaultEncoding()
	}
	if name, err := ianaindex.MIME.Name(enc); err == nil {
		return name
	}
	if name, err := ianaindex.IANA.Name(enc); err == nil {
		return name
	}
	return ""
}
