package illustration

import (
	"fmt"
	"strings"

	"docviz/internal/features/palette"
	logging "docviz/internal/infra/log"

	"go.uber.org/zap"
)

const transparentHint = "Place the subject on a plain solid white background with no shadow or floor, so it can be cut out cleanly."

// Preset is the resolved style, type and accent color of one illustration.
type Preset struct {
	Style Style
	Type  Type
	Color palette.Entry
}

// ResolvePresets maps names to presets. A blank name selects the default
// (flat, concept, coral); an unknown name falls back to it with a warning
// instead of failing.
func ResolvePresets(style, typ, color string) Preset {
	var p Preset
	var ok bool

	if p.Style, ok = LookupStyle(style); !ok {
		p.Style, _ = LookupStyle(DefaultStyle)
		warnUnknown("style", style, DefaultStyle, StyleNames())
	}
	if p.Type, ok = LookupType(typ); !ok {
		p.Type, _ = LookupType(DefaultType)
		warnUnknown("type", typ, DefaultType, TypeNames())
	}
	if p.Color, ok = palette.Resolve(color); !ok {
		warnUnknown("color", color, palette.DefaultName, palette.Names())
	}
	return p
}

func warnUnknown(kind, name, fallback string, available []string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	logging.LogWarn(fmt.Sprintf("Unknown %s %q, using %q", kind, name, fallback),
		zap.Strings("available", available))
}

// ComposePrompt joins the style directive, the type modifier, the accent
// color directive and the subject into one instruction.
func ComposePrompt(style Style, typ Type, accent palette.Entry, subject string) string {
	accentLine := fmt.Sprintf(
		"Use %s as the accent color: %s for key elements, %s for soft fills and backgrounds, %s for outlines and emphasis. Keep everything else neutral grey and white.",
		accent.Name, accent.Primary, accent.Light, accent.Dark)

	return strings.Join([]string{
		style.Directive,
		typ.Modifier,
		accentLine,
		"No text, letters or watermarks.",
		"Subject: " + strings.TrimSpace(subject),
	}, " ")
}
