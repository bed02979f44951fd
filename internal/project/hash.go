package project

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"stripgen/internal/normalize"
)

// Digest - фиксированный 256 битный хеш.
type Digest [32]byte

// DigestBytes hashes data.
func DigestBytes(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}

// Combine builds H(first || rest...). Callers must pass rest in a stable order.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Hex returns the lowercase hex form of d.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Fingerprint identifies a signature list together with an encoding name.
// Order matters: the first matching signature wins, so reordering changes it.
func Fingerprint(sigs []*normalize.Signature, encodingName string) Digest {
	var b strings.Builder
	b.WriteString("encoding=")
	b.WriteString(encodingName)
	b.WriteByte(0)
	for _, sig := range sigs {
		spec := sig.Spec()
		strip := append([]string(nil), spec.Strip...)
		sort.Strings(strip)
		b.WriteString(spec.Name)
		b.WriteByte(0)
		b.WriteString(spec.Marker)
		b.WriteByte(0)
		b.WriteString(spec.Detect)
		b.WriteByte(0)
		b.WriteString(strings.Join(strip, "\x00"))
		b.WriteByte(1)
	}
	return DigestBytes([]byte(b.String()))
}
