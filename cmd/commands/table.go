package commands

import (
	"fmt"
	"strings"

	"docviz/internal/features/charts"
	"docviz/internal/features/dataset"
	"docviz/internal/features/palette"
	"docviz/internal/infra/fs"
	logging "docviz/internal/infra/log"

	"github.com/spf13/cobra"
)

type tableOptions struct {
	src          sourceFlags
	color        *choiceValue
	title        string
	width        int
	highlightCol string
	highlightRow string
	maxCellWidth int
	output       string
}

func newTableCmd() *cobra.Command {
	o := &tableOptions{color: newChoiceValue(palette.DefaultName, palette.Names())}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Render a table as an image",
		Long: `Render rows from JSON ([{"col": value}, ...]), CSV or XLSX as a table image with a
colored header and striped rows. --highlight-row accepts max:COLUMN, min:COLUMN or a
value of the first column; --highlight-col tints one column.`,
		Example: `  docviz table --csv results.csv --highlight-row max:Score --highlight-col Score
  docviz table -d '[{"Tool":"bar","Input":"JSON/CSV"}]' -c amber -t "Tools"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(cmd, o)
		},
	}

	o.src.register(cmd, false, false)
	f := cmd.Flags()
	f.VarP(o.color, "color", "c", o.color.usage("header and highlight color"))
	f.StringVarP(&o.title, "title", "t", "", "title above the table")
	f.IntVar(&o.width, "width", 0, "image width in pixels (default: fit content)")
	f.Int("dpi", 150, "text resolution")
	f.String("font", "", "TTF font for cell text")
	f.StringVar(&o.highlightCol, "highlight-col", "", "column to highlight")
	f.StringVar(&o.highlightRow, "highlight-row", "", "row to highlight: max:COL, min:COL or a first-column value")
	f.IntVar(&o.maxCellWidth, "max-cell-width", charts.DefaultMaxCellWidth, "truncate cells longer than this many characters")
	f.StringVarP(&o.output, "output", "o", "", "output file (default table_<color>.png)")
	return cmd
}

func runTable(cmd *cobra.Command, o *tableOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	src, err := o.src.source()
	if err != nil {
		return err
	}
	tbl, err := dataset.LoadTable(src)
	if err != nil {
		return err
	}

	row, err := charts.SelectRow(tbl, o.highlightRow)
	if err != nil {
		return err
	}
	if row < 0 && strings.TrimSpace(o.highlightRow) != "" {
		logging.LogWarn(fmt.Sprintf("No row matches --highlight-row %q, nothing highlighted", o.highlightRow))
	}

	maxCell := o.maxCellWidth
	if maxCell == 0 {
		maxCell = -1 // 0 on the command line means no truncation
	}

	color, _ := palette.Lookup(o.color.String())
	img, err := charts.RenderTable(charts.TableRequest{
		Table:        tbl,
		Title:        o.title,
		Color:        color,
		Fonts:        charts.LoadFonts(cfg.Charts.FontPath, cfg.Charts.BoldFontPath),
		DPI:          cfg.Charts.DPI,
		Width:        o.width,
		HighlightCol: o.highlightCol,
		HighlightRow: row,
		MaxCellWidth: maxCell,
	})
	if err != nil {
		return err
	}

	path := fs.ResolveOutputPath(o.output, cfg.App.OutputDir, fs.DefaultName("png", "table", color.Name))
	return saveImage(cmd, cfg, img, path, "Table", o.title)
}
