package kdl

import (
	"fmt"

	"github.com/fatih/color"
)

// ColorAttr names the syntactic role of an emitted token.
type ColorAttr int

const (
	NodeNameColor ColorAttr = iota
	TypeColor
	PropKeyColor
	StringColor
	NumberColor
	KeywordColor
	PunctColor
)

// Colors maps token roles to color functions.
type Colors struct {
	Default func(...any) string
	Map     map[ColorAttr]func(...any) string
}

// NewColors returns the default palette.
func NewColors() *Colors {
	return &Colors{
		Default: fmt.Sprint,
		Map: map[ColorAttr]func(...any) string{
			NodeNameColor: color.RGB(128, 168, 196).Add(color.Bold).SprintFunc(),
			TypeColor:     color.RGB(74, 92, 138).SprintFunc(),
			PropKeyColor:  color.RGB(196, 96, 16).SprintFunc(),
			StringColor:   color.RGB(8, 196, 16).SprintFunc(),
			NumberColor:   color.RGB(128, 216, 236).SprintFunc(),
			KeywordColor:  color.New(color.FgCyan).SprintFunc(),
			PunctColor:    color.RGB(255, 0, 196).SprintFunc(),
		},
	}
}

// Color returns the function used for attr.
func (c *Colors) Color(attr ColorAttr) func(...any) string {
	if f, ok := c.Map[attr]; ok {
		return f
	}
	if c.Default != nil {
		return c.Default
	}
	return fmt.Sprint
}
