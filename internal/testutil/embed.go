// Package testutil holds KDL documents shared by tests and benchmarks.
package testutil

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed testdata/*.kdl
var testdata embed.FS

// ReadTestData returns the embedded document name, e.g. "large.kdl".
func ReadTestData(name string) ([]byte, error) {
	return fs.ReadFile(testdata, path.Join("testdata", name))
}

// Names lists the embedded documents.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(testdata, "testdata")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
