package commands

import (
	"docviz/internal/features/charts"
	"docviz/internal/features/dataset"
	"docviz/internal/features/palette"
	"docviz/internal/infra/fs"
	logging "docviz/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type barOptions struct {
	src         sourceFlags
	color       *choiceValue
	title       string
	xlabel      string
	ylabel      string
	width       float64
	height      float64
	horizontal  bool
	noValues    bool
	valueFormat string
	output      string
}

func newBarCmd() *cobra.Command {
	o := &barOptions{color: newChoiceValue(palette.DefaultName, palette.Names())}

	cmd := &cobra.Command{
		Use:   "bar",
		Short: "Render a bar chart",
		Long: `Render a bar chart from inline JSON ({"label": value} or [{"label":..,"value":..}])
or from a CSV/XLSX file (first column labels, second column values unless chosen).`,
		Example: `  docviz bar -d '{"Go":42,"Rust":31,"Zig":9}' -t "Stars" -c teal
  docviz bar --csv sales.csv --value-column revenue --horizontal -o docs/img/revenue.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBar(cmd, o)
		},
	}

	o.src.register(cmd, false, true)
	f := cmd.Flags()
	f.VarP(o.color, "color", "c", o.color.usage("accent color"))
	f.StringVarP(&o.title, "title", "t", "", "chart title")
	f.StringVar(&o.xlabel, "xlabel", "", "x axis label")
	f.StringVar(&o.ylabel, "ylabel", "", "y axis label")
	f.Float64Var(&o.width, "width", 10, "width in inches")
	f.Float64Var(&o.height, "height", 6, "height in inches")
	f.Int("dpi", 150, "output resolution")
	f.BoolVar(&o.horizontal, "horizontal", false, "draw horizontal bars")
	f.BoolVar(&o.noValues, "no-values", false, "hide value labels")
	f.StringVar(&o.valueFormat, "value-format", "", `printf layout for value labels, e.g. "%.1f%%"`)
	f.StringVarP(&o.output, "output", "o", "", "output file (default bar_chart_<color>.png)")
	return cmd
}

func runBar(cmd *cobra.Command, o *barOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	src, err := o.src.source()
	if err != nil {
		return err
	}
	data, err := dataset.Load(src, dataset.FirstRemaining)
	if err != nil {
		return err
	}
	if len(data.Series) > 1 {
		logging.LogWarn("Bar charts draw one series, using the first", zap.String("series", data.Series[0].Name))
	}

	color, _ := palette.Lookup(o.color.String())
	img, err := charts.RenderBar(charts.BarRequest{
		Labels:      charts.Labels{Title: o.title, XLabel: o.xlabel, YLabel: o.ylabel},
		Canvas:      charts.Canvas{Width: o.width, Height: o.height, DPI: cfg.Charts.DPI},
		Data:        data,
		Color:       color,
		Horizontal:  o.horizontal,
		ShowValues:  !o.noValues,
		ValueFormat: o.valueFormat,
	})
	if err != nil {
		return err
	}

	path := fs.ResolveOutputPath(o.output, cfg.App.OutputDir, fs.DefaultName("png", "bar_chart", color.Name))
	return saveImage(cmd, cfg, img, path, "Bar chart", o.title)
}
