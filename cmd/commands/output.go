package commands

import (
	"image"

	"docviz/internal/clients_api/telegram"
	"docviz/internal/features/dataset"
	"docviz/internal/infra/config"
	"docviz/internal/infra/fs"
	logging "docviz/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sourceFlags are the data-source flags shared by the chart tools.
type sourceFlags struct {
	json         string
	series       string // line only
	csv          string
	xlsx         string
	sheet        string
	labelColumn  string
	valueColumns []string
}

func (s *sourceFlags) register(cmd *cobra.Command, multiSeries, columns bool) {
	f := cmd.Flags()
	f.StringVarP(&s.json, "data", "d", "", `inline JSON, or @file.json`)
	f.StringVar(&s.csv, "csv", "", "path to a CSV file with a header row")
	f.StringVar(&s.xlsx, "xlsx", "", "path to an XLSX workbook")
	f.StringVar(&s.sheet, "sheet", "", "worksheet name for --xlsx (default: first sheet)")

	exclusive := []string{"data", "csv", "xlsx"}
	if multiSeries {
		f.StringVar(&s.series, "series", "", `multi-series JSON {"name": {"label": value}}, or @file.json`)
		exclusive = []string{"data", "series", "csv", "xlsx"}
	}
	if columns {
		f.StringVar(&s.labelColumn, "label-column", "", "CSV/XLSX column holding the labels (default: first column)")
		f.StringSliceVar(&s.valueColumns, "value-column", nil, "CSV/XLSX column(s) holding the values")
	}
	cmd.MarkFlagsMutuallyExclusive(exclusive...)
	cmd.MarkFlagsOneRequired(exclusive...)
}

func (s *sourceFlags) source() (dataset.Source, error) {
	src, err := dataset.SourceFromFlags(s.json, s.series, s.csv, s.xlsx)
	if err != nil {
		return src, err
	}
	src.Sheet = s.sheet
	src.LabelColumn = s.labelColumn
	src.ValueColumns = s.valueColumns
	return src, nil
}

// saveImage encodes img for path, writes it atomically, prints the
// confirmation and optionally publishes it.
func saveImage(cmd *cobra.Command, cfg *config.Config, img image.Image, path, what, caption string) error {
	data, err := fs.EncodeImage(img, path)
	if err != nil {
		return err
	}
	size, err := fs.WriteArtifact(path, data)
	if err != nil {
		return err
	}
	b := img.Bounds()
	logging.LogInfo("Artifact written",
		zap.String("path", path),
		zap.Int64("size", size),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	printSaved(cmd.OutOrStdout(), what, path, size)

	publish(cfg, path, caption)
	return nil
}

// publish sends the artifact to Telegram when a chat is configured.
// Failures only warn: the file is already on disk.
func publish(cfg *config.Config, path, caption string) {
	chat := cfg.Telegram.ChatID
	if chat == "" {
		return
	}
	pub, err := telegram.NewPublisher(cfg.Telegram.BotToken)
	if err != nil {
		logging.LogWarn("Telegram publishing skipped", zap.Error(err))
		return
	}
	if err := pub.PublishPhoto(chat, path, caption); err != nil {
		logging.LogWarn("Telegram publishing failed", zap.String("chat", chat), zap.Error(err))
		return
	}
	logging.LogSuccess("Sent to Telegram", zap.String("chat", chat))
}
