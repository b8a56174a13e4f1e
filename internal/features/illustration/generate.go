package illustration

import (
	"context"
	"fmt"
	"image"
	"slices"
	"strings"
	"time"

	"docviz/internal/clients_api/gemini"
	"docviz/internal/infra/errs"
	"docviz/internal/infra/fs"
	logging "docviz/internal/infra/log"

	"go.uber.org/zap"
)

// ImageClient is the generative image service.
type ImageClient interface {
	GenerateImage(ctx context.Context, req gemini.ImageRequest) (*gemini.Image, error)
}

// BackgroundRemover cuts the background out of an encoded image.
type BackgroundRemover interface {
	Remove(ctx context.Context, data []byte) ([]byte, error)
}

// Request is one illustration as given on the command line. Style, Type and
// Color are resolved leniently; AspectRatio and Resolution must already be
// valid choices ("" picks the type's ratio and 1K).
type Request struct {
	Subject     string
	Style       string
	Type        string
	Color       string
	AspectRatio string
	Resolution  string
	Transparent bool
}

// Result is a generated illustration.
type Result struct {
	Image             image.Image
	Prompt            string
	Preset            Preset
	AspectRatio       string
	Resolution        string
	BackgroundRemoved bool
}

// Generator runs resolve -> compose -> generate -> decode -> cut out.
type Generator struct {
	Client  ImageClient
	Remover BackgroundRemover // optional
}

// Prepare resolves presets and composes the prompt without calling the service.
func Prepare(req Request) (Preset, string, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return Preset{}, "", errs.New(errs.CodeInvalidInput, "subject description is empty")
	}
	p := ResolvePresets(req.Style, req.Type, req.Color)
	prompt := ComposePrompt(p.Style, p.Type, p.Color, req.Subject)
	if req.Transparent {
		prompt += " " + transparentHint
	}
	return p, prompt, nil
}

// Generate produces one illustration. Service failures and answers without
// an image are fatal; a missing or failing background remover only warns.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	preset, prompt, err := Prepare(req)
	if err != nil {
		return nil, err
	}

	aspect := req.AspectRatio
	if aspect == "" {
		aspect = preset.Type.Aspect
	}
	if !slices.Contains(AspectRatios, aspect) {
		return nil, errs.New(errs.CodeInvalidInput, "unsupported aspect ratio %q (choose from %s)", aspect, strings.Join(AspectRatios, ", "))
	}
	resolution := strings.ToUpper(req.Resolution)
	if resolution == "" {
		resolution = Resolutions[0]
	}
	if !slices.Contains(Resolutions, resolution) {
		return nil, errs.New(errs.CodeInvalidInput, "unsupported resolution %q (choose from %s)", req.Resolution, strings.Join(Resolutions, ", "))
	}

	logging.LogInfo("Generating illustration",
		zap.String("style", preset.Style.Name),
		zap.String("type", preset.Type.Name),
		zap.String("color", preset.Color.Name),
		zap.String("aspect", aspect),
		zap.String("resolution", resolution),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()
	out, err := g.Client.GenerateImage(ctx, gemini.ImageRequest{Prompt: prompt, AspectRatio: aspect, ImageSize: resolution})
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Data) == 0 {
		return nil, errs.New(errs.CodeNoImage, "image service returned no image")
	}
	logging.LogDebug("Image received",
		zap.String("mime", out.MimeType),
		zap.Int("bytes", len(out.Data)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	res := &Result{Prompt: prompt, Preset: preset, AspectRatio: aspect, Resolution: resolution}
	data := out.Data
	if req.Transparent {
		if cut, ok := g.removeBackground(ctx, data); ok {
			data = cut
			res.BackgroundRemoved = true
		}
	}

	img, err := fs.DecodeImage(data)
	if err != nil {
		return nil, errs.Wrap(errs.CodeGenerationFailed, err, "image service returned undecodable %s data", out.MimeType)
	}
	res.Image = img
	return res, nil
}

func (g *Generator) removeBackground(ctx context.Context, data []byte) ([]byte, bool) {
	var err error
	if g.Remover == nil {
		err = errNoRemover
	} else {
		var cut []byte
		if cut, err = g.Remover.Remove(ctx, data); err == nil {
			return cut, true
		}
	}
	if ctx.Err() != nil {
		return nil, false
	}

	msg := "Background removal failed, keeping the original background"
	if errs.Is(err, errs.CodeOptionalUnavailable) {
		msg = "Background removal unavailable, keeping the original background"
	}
	logging.LogWarn(fmt.Sprintf("%s: %v", msg, err))
	return nil, false
}
