package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-kdl"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "fmt.yaml", `
version: "2"
indent: 2
escape: ascii
identifiers: quote-all
float:
  capital_e: true
  min_exponent: 2
`)
	f, err := Load(p)
	require.NoError(t, err)

	o := kdl.DefaultEmitterOptions()
	require.NoError(t, f.Apply(&o))
	require.Equal(t, 2, o.Indent)
	require.Equal(t, kdl.EscapeASCIIMode, o.EscapeMode)
	require.Equal(t, kdl.QuoteAllIdentifiers, o.IdentifierMode)
	require.True(t, o.FloatMode.CapitalE)
	require.True(t, o.FloatMode.AlwaysWriteDecimalPointOrExponent, "unset fields keep their defaults")
	require.Equal(t, 2, o.FloatMode.MinExponent)

	popts, err := f.ParseOptions()
	require.NoError(t, err)
	require.Len(t, popts, 1)
	_, err = kdl.ParseString("node true", popts...)
	require.Error(t, err)
}

func TestLoadTOML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "fmt.toml", `
indent = 0
identifiers = "ascii"

[float]
plus = true
always_write_decimal_point_or_exponent = false
`)
	f, err := Load(p)
	require.NoError(t, err)

	o := kdl.DefaultEmitterOptions()
	require.NoError(t, f.Apply(&o))
	require.Equal(t, 0, o.Indent)
	require.Equal(t, kdl.EscapeDefault, o.EscapeMode)
	require.Equal(t, kdl.ASCIIIdentifiers, o.IdentifierMode)
	require.True(t, o.FloatMode.Plus)
	require.False(t, o.FloatMode.AlwaysWriteDecimalPointOrExponent)
	require.Equal(t, 4, o.FloatMode.MinExponent)

	popts, err := f.ParseOptions()
	require.NoError(t, err)
	require.Empty(t, popts)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown extension", "fmt.json", `{}`},
		{"bad yaml", "bad.yaml", "indent: [1"},
		{"bad toml", "bad.toml", "indent = "},
		{"unknown escape", "esc.yaml", "escape: utf16"},
		{"unknown identifiers", "ids.toml", `identifiers = "never"`},
		{"negative indent", "neg.yaml", "indent: -1"},
		{"unknown version", "ver.yaml", `version: "3"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, tc.file, tc.content))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	_, ok := Discover(dir)
	require.False(t, ok)

	writeFile(t, dir, ".kdlfmt.toml", "indent = 3\n")
	p, ok := Discover(dir)
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, ".kdlfmt.toml"), p)

	writeFile(t, dir, ".kdlfmt.yaml", "indent: 1\n")
	p, ok = Discover(dir)
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, ".kdlfmt.yaml"), p, "yaml is preferred")
}
