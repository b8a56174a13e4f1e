// Package illustration composes image-generation prompts from named presets
// and turns the service's answer into a finished illustration.
package illustration

import "strings"

const (
	DefaultStyle = "flat"
	DefaultType  = "concept"
)

// Style is a visual aesthetic.
type Style struct {
	Name      string
	Directive string
}

// Type shapes the subject for a documentation role.
type Type struct {
	Name     string
	Modifier string
	Aspect   string // used when no aspect ratio is requested
}

var styles = [...]Style{
	{"flat", "Flat vector illustration with clean geometric shapes, solid fills, no gradients or textures, minimal shading."},
	{"isometric", "Isometric 3D illustration at a 30-degree angle, crisp edges, soft ambient occlusion, consistent lighting from the top left."},
	{"line", "Monoline line-art illustration with uniform stroke weight, rounded caps, sparse accent fills, generous white space."},
	{"blueprint", "Technical blueprint illustration with thin precise strokes, construction lines and dimension marks, drafted on a light grid."},
	{"gradient", "Modern illustration with smooth gradients, soft glows and rounded forms, subtle depth, polished and friendly."},
}

var types = [...]Type{
	{"hero", "Compose a wide hero banner for the top of a documentation page: one strong focal subject, balanced negative space for a headline on one side.", "16:9"},
	{"concept", "Explain the idea as a single clear visual metaphor that a reader grasps at a glance.", "4:3"},
	{"diagram", "Lay the subject out as a simplified diagram of unlabeled components connected by arrows, reading left to right.", "16:9"},
	{"icon", "Draw a single centered icon that stays legible at 64 pixels, bold silhouette, no text.", "1:1"},
	{"spot", "Create a small spot illustration that sits beside a paragraph of text, compact and self-contained.", "1:1"},
	{"workflow", "Show the subject as a sequence of three to five steps flowing in one direction, each step a distinct simple vignette.", "21:9"},
}

// AspectRatios are the ratios the image service accepts.
var AspectRatios = []string{"1:1", "2:3", "3:2", "3:4", "4:3", "9:16", "16:9", "21:9"}

// Resolutions are the output sizes the image service accepts.
var Resolutions = []string{"1K", "2K", "4K"}

// StyleNames lists the styles in declaration order.
func StyleNames() []string {
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = s.Name
	}
	return out
}

// TypeNames lists the illustration types in declaration order.
func TypeNames() []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Name
	}
	return out
}

// LookupStyle is case-insensitive.
func LookupStyle(name string) (Style, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range styles {
		if s.Name == name {
			return s, true
		}
	}
	return Style{}, false
}

// LookupType is case-insensitive.
func LookupType(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range types {
		if t.Name == name {
			return t, true
		}
	}
	return Type{}, false
}
