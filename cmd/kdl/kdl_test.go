package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-kdl/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestCat(t *testing.T) {
	cfg := &CatConfig{MainConfig: &MainConfig{}}
	var out bytes.Buffer
	err := catReader(cfg, &out, strings.NewReader("a   1 {b #true}"), "test")
	require.NoError(t, err)
	require.Equal(t, "a 1 {\n    b true\n}\n", out.String())
}

func TestCatFlags(t *testing.T) {
	indent, minExp := 1, 2
	cfg := &CatConfig{
		MainConfig: &MainConfig{NoColor: true},
		ASCII:      true,
		QuoteAll:   true,
		CapitalE:   true,
		Plus:       true,
		Indent:     &indent,
		MinExp:     &minExp,
	}
	var out bytes.Buffer
	err := catReader(cfg, &out, strings.NewReader(`a { b "🎈" 0.002 }`), "test")
	require.NoError(t, err)
	require.Equal(t, "\"a\" {\n \"b\" \"\\u{1f388}\" +2E-3\n}\n", out.String())
}

func TestCatVersion(t *testing.T) {
	cfg := &CatConfig{MainConfig: &MainConfig{V2: true}}
	var out bytes.Buffer
	err := catReader(cfg, &out, strings.NewReader("a true"), "test")
	require.Error(t, err)
	require.Contains(t, err.Error(), "error decoding test")
}

func TestCatFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.kdl", "a\n")
	b := writeFile(t, dir, "b.kdl", "b\n")
	var out bytes.Buffer
	stdin := strings.NewReader("c { d }")
	require.NoError(t, catFiles(&CatConfig{MainConfig: &MainConfig{}}, &out, stdin, []string{a, "-", b}))
	require.Equal(t, "a\nc {\n    d\n}\nb\n", out.String())

	err := catFiles(&CatConfig{MainConfig: &MainConfig{}}, &out, nil, []string{filepath.Join(dir, "missing.kdl")})
	require.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".kdlfmt.yaml", "indent: 2\nidentifiers: quote-all\n")

	mcfg := &MainConfig{}
	require.NoError(t, mcfg.loadConfig(dir))
	require.NotNil(t, mcfg.File)

	var out bytes.Buffer
	require.NoError(t, catReader(&CatConfig{MainConfig: mcfg}, &out, strings.NewReader("a { b }"), "test"))
	require.Equal(t, "\"a\" {\n  \"b\"\n}\n", out.String())

	explicit := writeFile(t, dir, "other.toml", "indent = 0\n")
	mcfg = &MainConfig{Config: explicit}
	require.NoError(t, mcfg.loadConfig(dir))
	out.Reset()
	require.NoError(t, catReader(&CatConfig{MainConfig: mcfg}, &out, strings.NewReader("a { b }"), "test"))
	require.Equal(t, "a {\nb\n}\n", out.String())

	mcfg = &MainConfig{Config: filepath.Join(dir, "missing.yaml")}
	require.Error(t, mcfg.loadConfig(dir))
}

func TestFormat(t *testing.T) {
	dir := t.TempDir()
	messy := writeFile(t, dir, "messy.kdl", "a   1\nb {c}\n")
	clean := writeFile(t, dir, "clean.kdl", "a 1\n")

	var out bytes.Buffer
	cfg := &FmtConfig{MainConfig: &MainConfig{}, List: true}
	require.NoError(t, formatFile(cfg, &out, messy))
	require.NoError(t, formatFile(cfg, &out, clean))
	require.Equal(t, messy+"\n", out.String())

	out.Reset()
	cfg = &FmtConfig{MainConfig: &MainConfig{}, Diff: true}
	require.NoError(t, formatFile(cfg, &out, messy))
	require.Equal(t,
		"--- "+messy+"\n+++ "+messy+" (formatted)\n"+
			"-a   1\n-b {c}\n+a 1\n+b {\n+    c\n+}\n",
		out.String())

	out.Reset()
	cfg = &FmtConfig{MainConfig: &MainConfig{}, Write: true}
	require.NoError(t, formatFile(cfg, &out, messy))
	require.Empty(t, out.String())
	got, err := os.ReadFile(messy)
	require.NoError(t, err)
	require.Equal(t, "a 1\nb {\n    c\n}\n", string(got))

	out.Reset()
	cfg = &FmtConfig{MainConfig: &MainConfig{}}
	require.NoError(t, formatSource(cfg, &out, "<stdin>", []byte("x  \"y\"")))
	require.Equal(t, "x \"y\"\n", out.String())

	err = formatSource(cfg, &out, "bad.kdl", []byte("x {"))
	require.ErrorContains(t, err, "error formatting bad.kdl")
}

func TestLineDiff(t *testing.T) {
	d := lineDiff("f", "a\nb\nc", "a\nB\nc\n")
	require.Equal(t, "--- f\n+++ f (formatted)\n a\n-b\n-c\n\\ No newline at end of file\n+B\n+c\n", d)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.kdl", "a 1\n")
	bad := writeFile(t, dir, "bad.kdl", "a {\n")

	var out bytes.Buffer
	failed, err := checkFiles(&CheckConfig{MainConfig: &MainConfig{}}, &out, []string{good, bad})
	require.NoError(t, err)
	require.Equal(t, 1, failed)
	require.Equal(t, bad+":1:3: children block is never closed\n", out.String())

	_, err = checkFiles(&CheckConfig{MainConfig: &MainConfig{}}, &out, []string{filepath.Join(dir, "missing.kdl")})
	require.Error(t, err)
}

func TestCheckCorpus(t *testing.T) {
	names, err := testutil.Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	dir := t.TempDir()
	var files []string
	for _, name := range names {
		data, err := testutil.ReadTestData(name)
		require.NoError(t, err)
		files = append(files, writeFile(t, dir, name, string(data)))
	}

	var out bytes.Buffer
	failed, err := checkFiles(&CheckConfig{MainConfig: &MainConfig{}}, &out, files)
	require.NoError(t, err)
	require.Zero(t, failed, out.String())
}

func TestTokenize(t *testing.T) {
	var out bytes.Buffer
	err := tokenizeReader(&TokenizeConfig{MainConfig: &MainConfig{}}, &out, strings.NewReader("a key=1;"))
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"1:1\tIDENT\t\"a\"",
		"1:3\tIDENT\t\"key\"",
		"1:6\t=\t\"=\"",
		"1:7\tNUMBER\t\"1\"",
		"1:8\t;\t\";\"",
		"1:9\tEOF\t\"\"",
		"",
	}, "\n"), out.String())

	err = tokenizeReader(&TokenizeConfig{MainConfig: &MainConfig{V1: true}}, &out, strings.NewReader("#true"))
	require.Error(t, err)
}

func TestIntOpt(t *testing.T) {
	var n *int
	v, err := intOpt(&n)(nil, "3")
	require.NoError(t, err)
	require.Equal(t, 3, v)
	require.Equal(t, 3, *n)

	_, err = intOpt(&n)(nil, "x")
	require.Error(t, err)
	_, err = intOpt(&n)(nil, "-1")
	require.Error(t, err)
}
