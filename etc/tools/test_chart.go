package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"docviz/internal/features/charts"
	"docviz/internal/features/dataset"
	"docviz/internal/features/palette"
	"docviz/internal/infra/fs"
)

// go run etc/tools/test_chart.go
// Renders one sample of every chart kind in every palette color to etc/charts/.
func main() {
	fmt.Println("Generating sample charts...")

	sales := &dataset.SeriesSet{
		Labels: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Series: []dataset.Series{
			{Name: "web", Values: []float64{120, 340, 280, 410, 390, 150, 90}},
			{Name: "mobile", Values: []float64{80, 210, 260, 300, 350, 240, 180}},
			{Name: "api", Values: []float64{400, 380, 420, 460, 440, 200, 150}},
		},
	}
	single := &dataset.SeriesSet{Labels: sales.Labels, Series: sales.Series[:1]}
	table := &dataset.Table{
		Columns: []string{"Service", "Requests", "p99 (ms)", "Owner"},
		Rows: []dataset.Row{
			{"Service": "gateway", "Requests": "1,204,332", "p99 (ms)": "41", "Owner": "platform"},
			{"Service": "search", "Requests": "402,118", "p99 (ms)": "128", "Owner": "discovery"},
			{"Service": "checkout", "Requests": "88,019", "p99 (ms)": "310", "Owner": "payments and billing infrastructure"},
			{"Service": "profile", "Requests": "250,447", "p99 (ms)": "65", "Owner": "identity"},
		},
	}
	worst, _ := charts.SelectRow(table, "max:p99 (ms)")
	canvas := charts.Canvas{Width: 10, Height: 6, DPI: 100}

	outDir := filepath.Join("etc", "charts")
	for _, color := range palette.All() {
		renders := map[string]func() (image.Image, error){
			"bar": func() (image.Image, error) {
				return charts.RenderBar(charts.BarRequest{Labels: charts.Labels{Title: "Web requests"}, Canvas: canvas, Data: single, Color: color, ShowValues: true})
			},
			"line": func() (image.Image, error) {
				return charts.RenderLine(charts.LineRequest{Labels: charts.Labels{Title: "Requests by client", YLabel: "requests"}, Canvas: canvas, Data: sales, Color: color, Markers: true})
			},
			"table": func() (image.Image, error) {
				return charts.RenderTable(charts.TableRequest{Table: table, Title: "Services", Color: color, DPI: 100, HighlightCol: "p99 (ms)", HighlightRow: worst})
			},
		}
		for kind, render := range renders {
			img, err := render()
			if err != nil {
				fmt.Printf("Error rendering %s/%s: %v\n", kind, color.Name, err)
				os.Exit(1)
			}
			path := filepath.Join(outDir, fs.DefaultName("png", kind, color.Name))
			data, err := fs.EncodeImage(img, path)
			if err == nil {
				_, err = fs.WriteArtifact(path, data)
			}
			if err != nil {
				fmt.Printf("Error saving %s: %v\n", path, err)
				os.Exit(1)
			}
			fmt.Printf("  %s\n", path)
		}
	}
	fmt.Println("Done. Open the files to see the result!")
}
