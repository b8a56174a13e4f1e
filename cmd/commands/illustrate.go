package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"docviz/internal/clients_api/gemini"
	"docviz/internal/features/illustration"
	"docviz/internal/features/palette"
	"docviz/internal/infra/fs"
	logging "docviz/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type illustrateOptions struct {
	subject     string
	style       string
	kind        string
	color       string
	aspect      *choiceValue
	resolution  *choiceValue
	transparent bool
	promptOnly  bool
	output      string
}

func newIllustrateCmd() *cobra.Command {
	o := &illustrateOptions{
		aspect:     newChoiceValue("", illustration.AspectRatios),
		resolution: newChoiceValue(illustration.Resolutions[0], illustration.Resolutions),
	}

	cmd := &cobra.Command{
		Use:   "illustrate [subject...]",
		Short: "Generate an illustration with an image model",
		Long: fmt.Sprintf(`Generate an illustration for documentation from a short subject description.
The prompt combines a visual style, an illustration type and an accent color from
the palette. Unknown style, type or color names fall back to the defaults with a
warning.

Styles: %s
Types:  %s
Colors: %s

Requires GEMINI_API_KEY. --transparent cuts the background out with rembg when it is installed.`,
			strings.Join(illustration.StyleNames(), ", "),
			strings.Join(illustration.TypeNames(), ", "),
			strings.Join(palette.Names(), ", ")),
		Example: `  docviz illustrate "a cache sitting between an API and a database" --type diagram --style isometric
  docviz illustrate --subject "rocket launch" --type icon -c teal --transparent
  docviz illustrate "data pipeline" --prompt-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.subject == "" {
				o.subject = strings.Join(args, " ")
			}
			return runIllustrate(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.subject, "subject", "s", "", "what to draw (alternative to positional words)")
	f.StringVar(&o.style, "style", illustration.DefaultStyle, "visual style")
	f.StringVar(&o.kind, "type", illustration.DefaultType, "illustration type")
	f.StringVarP(&o.color, "color", "c", palette.DefaultName, "accent color")
	f.Var(o.aspect, "aspect", o.aspect.usage("aspect ratio, default depends on --type"))
	f.Var(o.resolution, "resolution", o.resolution.usage("output resolution"))
	f.BoolVar(&o.transparent, "transparent", false, "remove the background (needs rembg)")
	f.BoolVar(&o.promptOnly, "prompt-only", false, "print the composed prompt and exit")
	f.String("model", "", "image model (default from config)")
	f.StringVarP(&o.output, "output", "o", "", "output file (default illustration_<type>_<color>.png)")
	return cmd
}

func runIllustrate(cmd *cobra.Command, o *illustrateOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	req := illustration.Request{
		Subject:     o.subject,
		Style:       o.style,
		Type:        o.kind,
		Color:       o.color,
		AspectRatio: o.aspect.String(),
		Resolution:  o.resolution.String(),
		Transparent: o.transparent,
	}

	if o.promptOnly {
		_, prompt, err := illustration.Prepare(req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), prompt)
		return nil
	}

	client, err := gemini.NewClient(cfg.Gemini)
	if err != nil {
		return err
	}
	gen := &illustration.Generator{
		Client: client,
		Remover: illustration.Rembg{
			Command: cfg.Background.Command,
			Timeout: time.Duration(cfg.Background.Timeout) * time.Second,
		},
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	start := time.Now()
	res, err := gen.Generate(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("cancelled: %w", ctx.Err())
		}
		return err
	}
	logging.LogSuccess("Illustration generated",
		zap.String("model", client.Model()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	name := fs.DefaultName("png", "illustration", res.Preset.Type.Name, res.Preset.Color.Name)
	path := fs.ResolveOutputPath(o.output, cfg.App.OutputDir, name)
	if res.BackgroundRemoved && !strings.EqualFold(filepath.Ext(path), ".png") {
		logging.LogWarn("Transparency is only kept in PNG output", zap.String("path", path))
	}
	return saveImage(cmd, cfg, res.Image, path, "Illustration", o.subject)
}
