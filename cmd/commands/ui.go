package commands

// Terminal output of the commands: the confirmation line and palette swatches.
// Diagnostics go through internal/infra/log; this file only prints results.

import (
	"fmt"
	"io"
	"strings"

	"docviz/internal/features/palette"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen = lipgloss.Color("35")
	colorDim   = lipgloss.Color("240")
	colorBlue  = lipgloss.Color("75")

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	stylePath        = lipgloss.NewStyle().Foreground(colorBlue)
	styleDim         = lipgloss.NewStyle().Foreground(colorDim)
	styleName        = lipgloss.NewStyle().Bold(true).Width(8)
)

const (
	iconSuccess = "✓"
	iconArrow   = "→"
)

// printSaved prints the one-line confirmation for a written artifact.
func printSaved(w io.Writer, what, path string, size int64) {
	fmt.Fprintf(w, "%s %s %s %s %s\n",
		styleIconSuccess.Render(iconSuccess),
		what,
		iconArrow,
		stylePath.Render(path),
		styleDim.Render("("+formatSize(size)+")"))
}

// printPalette lists every entry with swatches of its three variants.
func printPalette(w io.Writer) {
	for _, e := range palette.All() {
		var swatches []string
		for _, v := range []palette.Variant{palette.Primary, palette.Light, palette.Dark} {
			hex := e.Hex(v)
			swatch := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
			swatches = append(swatches, swatch+" "+hex)
		}
		line := styleName.Render(e.Name) + "  " + strings.Join(swatches, "  ")
		if e.Name == palette.DefaultName {
			line += styleDim.Render("  (default)")
		}
		fmt.Fprintln(w, line)
		if e.Usage != "" {
			fmt.Fprintln(w, "          "+styleDim.Render(e.Usage))
		}
	}
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
