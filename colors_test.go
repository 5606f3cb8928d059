package kdl

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestNewColors(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	c := NewColors()
	for _, attr := range []ColorAttr{NodeNameColor, TypeColor, PropKeyColor, StringColor, NumberColor, KeywordColor, PunctColor} {
		out := c.Color(attr)("x")
		require.True(t, strings.HasPrefix(out, "\x1b["), "attr %d: %q", attr, out)
		require.Contains(t, out, "x")
	}

	require.Equal(t, "x", (&Colors{}).Color(NodeNameColor)("x"))

	opts := DefaultEmitterOptions()
	opts.Colors = c
	doc := NewDocument(&Node{Name: "n", Args: []Value{String("s")}})
	colored := Emit(doc, opts)
	require.NotEqual(t, Emit(doc, DefaultEmitterOptions()), colored)
	require.True(t, strings.HasSuffix(colored, "\n"))
}
