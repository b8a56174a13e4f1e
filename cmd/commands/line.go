package commands

import (
	"docviz/internal/features/charts"
	"docviz/internal/features/dataset"
	"docviz/internal/features/palette"
	"docviz/internal/infra/fs"

	"github.com/spf13/cobra"
)

type lineOptions struct {
	src     sourceFlags
	color   *choiceValue
	title   string
	xlabel  string
	ylabel  string
	width   float64
	height  float64
	markers bool
	fill    bool
	output  string
}

func newLineCmd() *cobra.Command {
	o := &lineOptions{color: newChoiceValue(palette.DefaultName, palette.Names())}

	cmd := &cobra.Command{
		Use:   "line",
		Short: "Render a line chart with one or more series",
		Long: `Render a line chart. Use --data for one series, --series for several
({"north": {"Q1": 1, "Q2": 3}, "south": {...}}), or a CSV/XLSX file where every
column after the label column becomes a series. Series colors rotate through the
palette starting at --color; a legend is drawn when there is more than one series.`,
		Example: `  docviz line -d '{"Mon":3,"Tue":5,"Wed":4}' --markers --fill
  docviz line --csv latency.csv --value-column p50,p99 -c indigo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLine(cmd, o)
		},
	}

	o.src.register(cmd, true, true)
	f := cmd.Flags()
	f.VarP(o.color, "color", "c", o.color.usage("color of the first series"))
	f.StringVarP(&o.title, "title", "t", "", "chart title")
	f.StringVar(&o.xlabel, "xlabel", "", "x axis label")
	f.StringVar(&o.ylabel, "ylabel", "", "y axis label")
	f.Float64Var(&o.width, "width", 10, "width in inches")
	f.Float64Var(&o.height, "height", 6, "height in inches")
	f.Int("dpi", 150, "output resolution")
	f.BoolVar(&o.markers, "markers", false, "draw a marker on every point")
	f.BoolVar(&o.fill, "fill", false, "shade the area under the line (single series only)")
	f.StringVarP(&o.output, "output", "o", "", "output file (default line_chart_<color>.png)")
	return cmd
}

func runLine(cmd *cobra.Command, o *lineOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	src, err := o.src.source()
	if err != nil {
		return err
	}
	data, err := dataset.Load(src, dataset.AllRemaining)
	if err != nil {
		return err
	}

	color, _ := palette.Lookup(o.color.String())
	img, err := charts.RenderLine(charts.LineRequest{
		Labels:  charts.Labels{Title: o.title, XLabel: o.xlabel, YLabel: o.ylabel},
		Canvas:  charts.Canvas{Width: o.width, Height: o.height, DPI: cfg.Charts.DPI},
		Data:    data,
		Color:   color,
		Markers: o.markers,
		Fill:    o.fill,
	})
	if err != nil {
		return err
	}

	path := fs.ResolveOutputPath(o.output, cfg.App.OutputDir, fs.DefaultName("png", "line_chart", color.Name))
	return saveImage(cmd, cfg, img, path, "Line chart", o.title)
}
