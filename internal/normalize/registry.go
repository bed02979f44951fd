package normalize

import (
	"fmt"
	"strings"
)

// Names of the built-in signatures.
const (
	// SunJAXB is the JAXB reference implementation shipped as com.sun.xml.bind.
	SunJAXB = "com.sun.xml.bind"
	// GlassfishJAXB is the Eclipse implementation shipped as org.glassfish.jaxb.
	GlassfishJAXB = "org.glassfish.jaxb"
)

// generatedOnPattern matches the timestamp line both xjc flavours emit.
const generatedOnPattern = `^Generated on: .*$`

func builtinSpecs() []SignatureSpec {
	return []SignatureSpec{
		{
			Name:   SunJAXB,
			Marker: "This file was generated by the JavaTM Architecture for XML Binding(JAXB) Reference Implementation",
			Strip:  []string{generatedOnPattern},
		},
		{
			Name:   GlassfishJAXB,
			Marker: "This file was generated by the Eclipse Implementation of JAXB",
			Strip:  []string{generatedOnPattern},
		},
	}
}

// Registry is an ordered set of signatures with unique names.
type Registry struct {
	sigs []*Signature
}

// NewRegistry builds a registry from sigs, keeping their order.
func NewRegistry(sigs ...*Signature) (*Registry, error) {
	r := &Registry{sigs: make([]*Signature, 0, len(sigs))}
	for _, sig := range sigs {
		if err := r.Add(sig); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Builtin returns a fresh registry holding the signatures known out of the box.
func Builtin() *Registry {
	specs := builtinSpecs()
	r := &Registry{sigs: make([]*Signature, 0, len(specs))}
	for _, spec := range specs {
		r.sigs = append(r.sigs, MustSignature(spec))
	}
	return r
}

// Add appends sig. Names are compared case-insensitively.
func (r *Registry) Add(sig *Signature) error {
	if sig == nil {
		return fmt.Errorf("%w: nil signature", ErrInvalidSignature)
	}
	if _, ok := r.Lookup(sig.Name); ok {
		return fmt.Errorf("%w: duplicate name %q", ErrInvalidSignature, sig.Name)
	}
	r.sigs = append(r.sigs, sig)
	return nil
}

// Lookup finds a signature by name.
func (r *Registry) Lookup(name string) (*Signature, bool) {
	for _, sig := range r.sigs {
		if strings.EqualFold(sig.Name, name) {
			return sig, true
		}
	}
	return nil, false
}

// Names lists signature names in registry order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.sigs))
	for _, sig := range r.sigs {
		out = append(out, sig.Name)
	}
	return out
}

// All returns the signatures in registry order.
func (r *Registry) All() []*Signature {
	out := make([]*Signature, len(r.sigs))
	copy(out, r.sigs)
	return out
}

// Select resolves names in the given order. An empty list selects everything.
func (r *Registry) Select(names []string) ([]*Signature, error) {
	if len(names) == 0 {
		return r.All(), nil
	}
	out := make([]*Signature, 0, len(names))
	seen := make(map[*Signature]bool, len(names))
	for _, name := range names {
		sig, ok := r.Lookup(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown generator %q (known: %s)", name, strings.Join(r.Names(), ", "))
		}
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, sig)
	}
	return out, nil
}

// Len returns the number of signatures.
func (r *Registry) Len() int {
	return len(r.sigs)
}
