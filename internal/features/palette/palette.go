// Package palette holds the fixed set of named accent colors shared by every tool.
//
// The table is immutable. Lookups are case-insensitive; Resolve substitutes
// DefaultName on a miss and reports it so the caller can warn, while chart
// tools reject unknown names at flag parsing through Names.
package palette

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is used whenever a requested name is not in the palette.
const DefaultName = "coral"

// Variant selects one of the hex values of an Entry.
type Variant int

const (
	Primary Variant = iota
	Light
	Dark
)

// Entry is one named accent color with its light and dark companions.
type Entry struct {
	Name    string
	Primary string
	Light   string
	Dark    string
	Usage   string
}

// entries order is the rotation order used by Sequence.
var entries = [...]Entry{
	{Name: "coral", Primary: "#FF6B6B", Light: "#FFE3E3", Dark: "#C92A2A", Usage: "Warnings, regressions and call-to-action metrics"},
	{Name: "teal", Primary: "#12B886", Light: "#C3FAE8", Dark: "#087F5B", Usage: "Success states, growth and positive trends"},
	{Name: "indigo", Primary: "#4C6EF5", Light: "#DBE4FF", Dark: "#364FC7", Usage: "Primary data, neutral comparisons and architecture"},
	{Name: "amber", Primary: "#F59F00", Light: "#FFF3BF", Dark: "#E67700", Usage: "Performance, latency and attention items"},
}

// Size is the number of named colors.
const Size = len(entries)

// Names returns the palette names in rotation order.
func Names() []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// All returns a copy of the palette in rotation order.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries[:])
	return out
}

func index(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, e := range entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// Lookup finds name case-insensitively.
func Lookup(name string) (Entry, bool) {
	if i := index(name); i >= 0 {
		return entries[i], true
	}
	return Entry{}, false
}

// Default returns the DefaultName entry.
func Default() Entry {
	return entries[index(DefaultName)]
}

// Resolve is the lenient lookup: a miss returns Default() and false.
func Resolve(name string) (Entry, bool) {
	if e, ok := Lookup(name); ok {
		return e, true
	}
	return Default(), false
}

// Sequence returns n primary hex colors, starting at base and rotating through
// the palette; entries repeat with period Size. An unknown base starts at the default.
func Sequence(base string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	start := index(base)
	if start < 0 {
		start = index(DefaultName)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = entries[(start+i)%len(entries)].Primary
	}
	return out
}

// Hex returns the hex string of the requested variant.
func (e Entry) Hex(v Variant) string {
	switch v {
	case Light:
		return e.Light
	case Dark:
		return e.Dark
	default:
		return e.Primary
	}
}

// Color converts the requested variant to a color.Color.
func (e Entry) Color(v Variant) color.Color {
	return HexColor(e.Hex(v))
}

// HexColor parses "#RRGGBB"; malformed input yields mid grey.
func HexColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// WithAlpha returns c with its alpha replaced by a (non-premultiplied).
func WithAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
