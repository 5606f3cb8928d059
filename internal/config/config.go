// Package config loads emitter settings for the kdl command from YAML or
// TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/KimNorgaard/go-kdl"
)

// DefaultNames are the file names Discover looks for, in order.
var DefaultNames = []string{".kdlfmt.yaml", ".kdlfmt.yml", ".kdlfmt.toml"}

// File is the on-disk configuration. Unset fields keep the emitter
// defaults.
type File struct {
	Version     string `yaml:"version" toml:"version"`         // auto, 1 or 2
	Indent      *int   `yaml:"indent" toml:"indent"`
	Escape      string `yaml:"escape" toml:"escape"`           // default, ascii or none
	Identifiers string `yaml:"identifiers" toml:"identifiers"` // bare, quote-all or ascii
	Float       Float  `yaml:"float" toml:"float"`
}

// Float mirrors kdl.FloatMode.
type Float struct {
	AlwaysWriteDecimalPoint           *bool `yaml:"always_write_decimal_point" toml:"always_write_decimal_point"`
	AlwaysWriteDecimalPointOrExponent *bool `yaml:"always_write_decimal_point_or_exponent" toml:"always_write_decimal_point_or_exponent"`
	CapitalE                          *bool `yaml:"capital_e" toml:"capital_e"`
	ExponentPlus                      *bool `yaml:"exponent_plus" toml:"exponent_plus"`
	Plus                              *bool `yaml:"plus" toml:"plus"`
	MinExponent                       *int  `yaml:"min_exponent" toml:"min_exponent"`
}

// Load reads a configuration file. The format is chosen by extension.
func Load(path string) (*File, error) {
	path = os.ExpandEnv(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported file type %q", ext)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &f, nil
}

// Discover returns the first of DefaultNames present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range DefaultNames {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}

func (f *File) validate() error {
	if _, err := f.version(); err != nil {
		return err
	}
	if f.Indent != nil && *f.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", *f.Indent)
	}
	if _, err := escapeMode(f.Escape); err != nil {
		return err
	}
	if _, err := identifierMode(f.Identifiers); err != nil {
		return err
	}
	if f.Float.MinExponent != nil && *f.Float.MinExponent < 0 {
		return fmt.Errorf("float.min_exponent must not be negative, got %d", *f.Float.MinExponent)
	}
	return nil
}

// Apply overlays the settings in f onto o.
func (f *File) Apply(o *kdl.EmitterOptions) error {
	if err := f.validate(); err != nil {
		return err
	}
	if f.Indent != nil {
		o.Indent = *f.Indent
	}
	if f.Escape != "" {
		o.EscapeMode, _ = escapeMode(f.Escape)
	}
	if f.Identifiers != "" {
		o.IdentifierMode, _ = identifierMode(f.Identifiers)
	}
	setBool(&o.FloatMode.AlwaysWriteDecimalPoint, f.Float.AlwaysWriteDecimalPoint)
	setBool(&o.FloatMode.AlwaysWriteDecimalPointOrExponent, f.Float.AlwaysWriteDecimalPointOrExponent)
	setBool(&o.FloatMode.CapitalE, f.Float.CapitalE)
	setBool(&o.FloatMode.ExponentPlus, f.Float.ExponentPlus)
	setBool(&o.FloatMode.Plus, f.Float.Plus)
	if f.Float.MinExponent != nil {
		o.FloatMode.MinExponent = *f.Float.MinExponent
	}
	return nil
}

// ParseOptions returns the parse options selected by f.
func (f *File) ParseOptions() ([]kdl.ParseOption, error) {
	v, err := f.version()
	if err != nil {
		return nil, err
	}
	if v == kdl.VersionAuto {
		return nil, nil
	}
	return []kdl.ParseOption{kdl.WithVersion(v)}, nil
}

func (f *File) version() (kdl.Version, error) {
	switch f.Version {
	case "", "auto":
		return kdl.VersionAuto, nil
	case "1", "v1":
		return kdl.Version1, nil
	case "2", "v2":
		return kdl.Version2, nil
	}
	return 0, fmt.Errorf("unknown version %q", f.Version)
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func escapeMode(s string) (kdl.EscapeMode, error) {
	switch s {
	case "", "default":
		return kdl.EscapeDefault, nil
	case "ascii":
		return kdl.EscapeASCIIMode, nil
	case "none":
		return 0, nil
	}
	return 0, fmt.Errorf("unknown escape mode %q", s)
}

func identifierMode(s string) (kdl.IdentifierMode, error) {
	switch s {
	case "", "bare":
		return kdl.PreferBareIdentifiers, nil
	case "quote-all":
		return kdl.QuoteAllIdentifiers, nil
	case "ascii":
		return kdl.ASCIIIdentifiers, nil
	}
	return 0, fmt.Errorf("unknown identifier mode %q", s)
}
