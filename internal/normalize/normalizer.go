package normalize

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
)

// Outcome tells what Normalize did with a file.
type Outcome uint8

const (
	// OutcomeCopied means no signature matched and the bytes were copied as-is.
	OutcomeCopied Outcome = iota
	// OutcomeRewritten means a generator header was found and stripped.
	OutcomeRewritten
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeRewritten:
		return "rewritten"
	default:
		return "unknown"
	}
}

// Result describes a single normalization.
type Result struct {
	Outcome   Outcome
	Signature *Signature // nil unless Outcome is OutcomeRewritten
	Rewritten int        // marker lines reduced to the bare marker
	Dropped   int        // variable header lines removed
}

// Normalizer strips generator headers. It holds no state besides its
// configuration and is safe for concurrent use on distinct files.
type Normalizer struct {
	// Signatures are tried in order; the first one found in the header wins.
	Signatures []*Signature
	// Encoding of the processed files. Nil means UTF-8.
	Encoding encoding.Encoding
}

// New returns a Normalizer for the given signatures and encoding.
func New(signatures []*Signature, enc encoding.Encoding) *Normalizer {
	return &Normalizer{Signatures: signatures, Encoding: enc}
}

// File normalizes a single file; see Normalizer.File.
func File(in, out string, signatures []*Signature, enc encoding.Encoding) (Result, error) {
	return New(signatures, enc).File(in, out)
}

func (n *Normalizer) encoding() encoding.Encoding {
	if n.Encoding == nil {
		return DefaultEncoding()
	}
	return n.Encoding
}

// File reads in and writes the normalized content to out. out is replaced
// only once it has been written completely; in may equal out.
func (n *Normalizer) File(in, out string) (Result, error) {
	src, perm, err := ReadSource(in)
	if err != nil {
		return Result{}, err
	}
	data, res, err := n.Bytes(src)
	if err != nil {
		return res, fmt.Errorf("%s: %w", in, err)
	}
	if err := WriteFileAtomic(out, data, perm); err != nil {
		return res, fmt.Errorf("write %s: %w", out, err)
	}
	return res, nil
}

// ReadSource returns the content of path and the permission bits an output
// derived from it is written with.
func ReadSource(path string) ([]byte, os.FileMode, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("read %s: is a directory", path)
	}
	src, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	return src, info.Mode().Perm(), nil
}

// Bytes normalizes src in memory. When no signature matches, src itself is
// returned.
func (n *Normalizer) Bytes(src []byte) ([]byte, Result, error) {
	copied := Result{Outcome: OutcomeCopied}
	if len(n.Signatures) == 0 || len(src) == 0 {
		return src, copied, nil
	}

	enc := n.encoding()
	decoded, err := enc.NewDecoder().Bytes(src)
	if err != nil {
		return nil, copied, fmt.Errorf("%w: decode: %v", ErrLossyEncoding, err)
	}
	lines := splitLines(string(decoded))
	header := scanHeader(lines)

	sig := n.match(lines, header)
	if sig == nil {
		return src, copied, nil
	}

	// rewriting re-encodes everything, so the text model must be exact
	back, err := enc.NewEncoder().Bytes(decoded)
	if err != nil || !bytes.Equal(back, src) {
		return nil, copied, fmt.Errorf("%w (generator %s)", ErrLossyEncoding, sig.Name)
	}

	res := Result{Outcome: OutcomeRewritten, Signature: sig}
	drop := make(map[int]bool)
	for _, h := range header {
		ln := &lines[h.index]
		body := h.body(ln.text)
		switch {
		case sig.Matches(body):
			ln.text = h.replaceBody(ln.text, sig.Marker)
			res.Rewritten++
		case sig.IsVariable(body):
			drop[h.index] = true
			res.Dropped++
		}
	}
	kept := lines
	if len(drop) > 0 {
		kept = make([]line, 0, len(lines)-len(drop))
		for i, ln := range lines {
			if !drop[i] {
				kept = append(kept, ln)
			}
		}
	}

	out, err := enc.NewEncoder().String(joinLines(kept))
	if err != nil {
		return nil, copied, fmt.Errorf("encode: %w", err)
	}
	return []byte(out), res, nil
}

// match returns the first signature whose marker appears in the header.
func (n *Normalizer) match(lines []line, header []headerLine) *Signature {
	for _, sig := range n.Signatures {
		if sig == nil {
			continue
		}
		for _, h := range header {
			if sig.Matches(h.body(lines[h.index].text)) {
				return sig
			}
		}
	}
	return nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it over
// path. The temp file is removed on every failure path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Chmod(perm); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
