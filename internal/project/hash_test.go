package project

import (
	"testing"

	"stripgen/internal/normalize"
)

func TestCombineIsOrderSensitive(t *testing.T) {
	a, b := DigestBytes([]byte("a")), DigestBytes([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("expected different digests for different order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatal("expected stable digest")
	}
}

func TestFingerprint(t *testing.T) {
	sigs := normalize.Builtin().All()
	reversed := []*normalize.Signature{sigs[1], sigs[0]}

	base := Fingerprint(sigs, "UTF-8")
	if base != Fingerprint(normalize.Builtin().All(), "UTF-8") {
		t.Fatal("fingerprint must be stable across registries")
	}
	if base == Fingerprint(reversed, "UTF-8") {
		t.Fatal("signature order must change the fingerprint")
	}
	if base == Fingerprint(sigs, "ISO-8859-1") {
		t.Fatal("encoding must change the fingerprint")
	}
	if len(base.Hex()) != 64 {
		t.Fatalf("unexpected hex length %d", len(base.Hex()))
	}
}
