package project

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/encoding"

	"stripgen/internal/normalize"
)

// DefaultInclude is the file name pattern stripped when walking directories.
const DefaultInclude = "ObjectFactory.java"

// Manifest is a loaded stripgen.toml. A zero Root means built-in defaults.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the layout of stripgen.toml.
type Config struct {
	Strip      StripConfig       `toml:"strip"`
	Signatures []SignatureConfig `toml:"signature,omitempty"`
}

// StripConfig holds the [strip] table.
type StripConfig struct {
	Encoding   string   `toml:"encoding"`
	Include    []string `toml:"include"`
	Exclude    []string `toml:"exclude,omitempty"`
	Generators []string `toml:"generators,omitempty"`
	Out        string   `toml:"out,omitempty"`
	Jobs       int      `toml:"jobs,omitempty"`
	Cache      bool     `toml:"cache"`
}

// SignatureConfig holds one [[signature]] entry.
type SignatureConfig struct {
	Name   string   `toml:"name"`
	Marker string   `toml:"marker"`
	Detect string   `toml:"detect,omitempty"`
	Strip  []string `toml:"strip,omitempty"`
}

// DefaultConfig returns the settings used when no manifest exists.
func DefaultConfig() Config {
	return Config{
		Strip: StripConfig{
			Encoding: "UTF-8",
			Include:  []string{DefaultInclude},
		},
	}
}

// Default returns a manifest holding DefaultConfig.
func Default() *Manifest {
	return &Manifest{Config: DefaultConfig()}
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	m := &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadNearest loads the manifest found by FindManifest from startDir.
func LoadNearest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

func (m *Manifest) validate() error {
	if m.Config.Strip.Jobs < 0 {
		return fmt.Errorf("[strip].jobs must not be negative")
	}
	if err := ValidatePatterns("[strip].include", m.Config.Strip.Include); err != nil {
		return err
	}
	if err := ValidatePatterns("[strip].exclude", m.Config.Strip.Exclude); err != nil {
		return err
	}
	if _, err := m.Encoding(); err != nil {
		return fmt.Errorf("[strip].encoding: %w", err)
	}
	if _, err := m.Signatures(); err != nil {
		return err
	}
	return nil
}

// Registry returns the built-in signatures followed by the manifest's own.
func (m *Manifest) Registry() (*normalize.Registry, error) {
	reg := normalize.Builtin()
	for i, sc := range m.Config.Signatures {
		sig, err := normalize.NewSignature(normalize.SignatureSpec{
			Name:   sc.Name,
			Marker: sc.Marker,
			Detect: sc.Detect,
			Strip:  sc.Strip,
		})
		if err != nil {
			return nil, fmt.Errorf("[[signature]] #%d: %w", i+1, err)
		}
		if err := reg.Add(sig); err != nil {
			return nil, fmt.Errorf("[[signature]] #%d: %w", i+1, err)
		}
	}
	return reg, nil
}

// Signatures returns the signatures selected by [strip].generators, in order.
// Without a selection every registered signature is used.
func (m *Manifest) Signatures() ([]*normalize.Signature, error) {
	reg, err := m.Registry()
	if err != nil {
		return nil, err
	}
	sigs, err := reg.Select(m.Config.Strip.Generators)
	if err != nil {
		return nil, fmt.Errorf("[strip].generators: %w", err)
	}
	return sigs, nil
}

// Encoding resolves [strip].encoding.
func (m *Manifest) Encoding() (encoding.Encoding, error) {
	return normalize.LookupEncoding(m.Config.Strip.Encoding)
}

// Include returns the configured include patterns, or the default one.
func (m *Manifest) Include() []string {
	if len(m.Config.Strip.Include) == 0 {
		return []string{DefaultInclude}
	}
	return m.Config.Strip.Include
}

// Exclude returns the configured exclude patterns.
func (m *Manifest) Exclude() []string {
	return m.Config.Strip.Exclude
}

// OutDir returns [strip].out resolved against the manifest directory.
func (m *Manifest) OutDir() string {
	out := strings.TrimSpace(m.Config.Strip.Out)
	if out == "" || filepath.IsAbs(out) || m.Root == "" {
		return out
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
