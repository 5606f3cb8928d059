//go:build go1.18

package kdl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KimNorgaard/go-kdl"
	"github.com/stretchr/testify/require"
)

func FuzzRoundTrip(f *testing.F) {
	// Seed the corpus with the documents from the testdata directory.
	seedFiles, err := filepath.Glob("testdata/*.kdl")
	if err != nil {
		f.Fatalf("failed to find seed files: %v", err)
	}

	for _, file := range seedFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			f.Fatalf("failed to read seed file %s: %v", file, err)
		}
		f.Add(data)
	}

	f.Add([]byte("node"))
	f.Add([]byte("node {}"))
	f.Add([]byte(`- "foo" 100 null { child1 a=(i8)-1; child2 true }`))
	f.Add([]byte(`"" 1`))
	f.Add([]byte("a -0.0 1e400 0x_ff"))
	f.Add([]byte("/- a; b /-c=1 d"))

	f.Fuzz(func(t *testing.T, data []byte) {
		doc, err := kdl.Parse(data)
		if err != nil {
			// Invalid input is expected; the fuzzer looks for panics.
			return
		}

		text := kdl.Emit(doc, kdl.DefaultEmitterOptions())
		again, err := kdl.ParseString(text)
		require.NoError(t, err, "emitted text does not parse:\n%s", text)
		require.True(t, doc.Equal(again), "document changed after a round trip:\n%s", text)

		require.Equal(t, text, kdl.Emit(again, kdl.DefaultEmitterOptions()), "emission is not idempotent")
	})
}
