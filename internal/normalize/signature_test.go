package normalize

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuiltinSignatures(t *testing.T) {
	r := Builtin()
	if got, want := r.Names(), []string{SunJAXB, GlassfishJAXB}; !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for _, sig := range r.All() {
		if !sig.Matches(sig.Marker) {
			t.Fatalf("%s does not match its own marker", sig.Name)
		}
		if !sig.IsVariable("Generated on: 2017.05.04 at 11:41:44 AM CEST") {
			t.Fatalf("%s does not strip the timestamp line", sig.Name)
		}
	}
}

func TestBuiltinReturnsFreshRegistry(t *testing.T) {
	a := Builtin()
	if err := a.Add(MustSignature(SignatureSpec{Name: "extra", Marker: "Generated by extra"})); err != nil {
		t.Fatal(err)
	}
	if b := Builtin(); b.Len() != 2 {
		t.Fatalf("expected builtin registry to be unaffected, got %d signatures", b.Len())
	}
}

func TestDefaultDetectPattern(t *testing.T) {
	sig := MustSignature(SignatureSpec{Name: "acme", Marker: "Generated by acme (beta)"})
	matches := []string{
		"Generated by acme (beta)",
		"Generated by acme (beta) v1",
		"Generated by acme (beta), v2.3.0-rc.1",
		"Generated by acme (beta) 10.4+meta",
	}
	for _, body := range matches {
		if !sig.Matches(body) {
			t.Errorf("expected %q to match", body)
		}
	}
	rejects := []string{
		"Generated by acme beta",
		"Generated by acme (beta) on Monday",
		"Generated by acme (beta)v1",
		"See: Generated by acme (beta)",
	}
	for _, body := range rejects {
		if sig.Matches(body) {
			t.Errorf("expected %q not to match", body)
		}
	}
}

func TestCustomDetectIsAnchored(t *testing.T) {
	sig := MustSignature(SignatureSpec{Name: "acme", Marker: "acme", Detect: `acme|acme build \d+`})
	if !sig.Matches("acme build 12") {
		t.Fatal("expected alternation to match")
	}
	if sig.Matches("xacme") || sig.Matches("acme build 12 extra") {
		t.Fatal("pattern must match the whole body")
	}
}

func TestNewSignatureErrors(t *testing.T) {
	tests := []struct {
		name string
		spec SignatureSpec
	}{
		{"missing name", SignatureSpec{Marker: "m"}},
		{"missing marker", SignatureSpec{Name: "n"}},
		{"bad detect", SignatureSpec{Name: "n", Marker: "m", Detect: "("}},
		{"detect rejects marker", SignatureSpec{Name: "n", Marker: "m", Detect: "other"}},
		{"bad strip", SignatureSpec{Name: "n", Marker: "m", Strip: []string{"["}}},
		{"strip removes marker", SignatureSpec{Name: "n", Marker: "m", Strip: []string{".*"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSignature(tt.spec)
			if !errors.Is(err, ErrInvalidSignature) {
				t.Fatalf("expected ErrInvalidSignature, got %v", err)
			}
		})
	}
}

func TestSpecRoundTrip(t *testing.T) {
	spec := SignatureSpec{Name: "acme", Marker: "Generated by acme", Strip: []string{`Date: .*`}}
	sig := MustSignature(spec)
	got := sig.Spec()
	if got.Detect != DefaultDetectPattern(spec.Marker) {
		t.Fatalf("expected resolved default detect, got %q", got.Detect)
	}
	again := MustSignature(got)
	if !again.Matches("Generated by acme v2") || !again.IsVariable("Date: today") {
		t.Fatal("signature rebuilt from Spec behaves differently")
	}
}

func TestRegistrySelect(t *testing.T) {
	r := Builtin()
	sigs, err := r.Select([]string{GlassfishJAXB, "COM.SUN.XML.BIND", GlassfishJAXB})
	if err != nil {
		t.Fatal(err)
	}
	if len(sigs) != 2 || sigs[0].Name != GlassfishJAXB || sigs[1].Name != SunJAXB {
		t.Fatalf("unexpected selection %v", sigs)
	}
	if all, _ := r.Select(nil); len(all) != 2 {
		t.Fatalf("empty selection should return all, got %d", len(all))
	}
	if _, err := r.Select([]string{"nope"}); err == nil {
		t.Fatal("expected unknown generator error")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	sig := MustSignature(SignatureSpec{Name: "Dup", Marker: "m"})
	if _, err := NewRegistry(sig, MustSignature(SignatureSpec{Name: "dup", Marker: "n"})); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}
