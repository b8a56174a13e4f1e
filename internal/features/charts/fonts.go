package charts

import (
	"os"
	"path/filepath"

	logging "docviz/internal/infra/log"

	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var regularFontPaths = []string{
	"etc/fonts/Inter-Regular.ttf",
	"./etc/fonts/Inter-Regular.ttf",
	"~/Library/Fonts/Inter-Regular.ttf",
	"/Library/Fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/inter/Inter-Regular.ttf",
	"/usr/local/share/fonts/Inter-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
}

var boldFontPaths = []string{
	"etc/fonts/Inter-Bold.ttf",
	"./etc/fonts/Inter-Bold.ttf",
	"~/Library/Fonts/Inter-Bold.ttf",
	"/Library/Fonts/Inter-Bold.ttf",
	"/usr/share/fonts/truetype/inter/Inter-Bold.ttf",
	"/usr/local/share/fonts/Inter-Bold.ttf",
	"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
}

// Fonts holds the parsed regular and bold faces used by the table renderer.
type Fonts struct {
	Regular *truetype.Font
	Bold    *truetype.Font
}

// LoadFonts picks the first loadable font, trying the configured path before
// the well-known locations, and falls back to the embedded Go fonts.
func LoadFonts(regularPath, boldPath string) *Fonts {
	return &Fonts{
		Regular: findFont(regularPath, regularFontPaths, goregular.TTF, "regular"),
		Bold:    findFont(boldPath, boldFontPaths, gobold.TTF, "bold"),
	}
}

// DefaultFonts uses the embedded Go fonts only.
func DefaultFonts() *Fonts {
	return &Fonts{
		Regular: mustParse(goregular.TTF),
		Bold:    mustParse(gobold.TTF),
	}
}

// Face returns a face of the given point size for drawing at dpi.
func (f *Fonts) Face(bold bool, size float64, dpi int) font.Face {
	ttf := f.Regular
	if bold {
		ttf = f.Bold
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: float64(dpi), Hinting: font.HintingFull})
}

func findFont(configured string, candidates []string, embedded []byte, weight string) *truetype.Font {
	paths := candidates
	if configured != "" {
		paths = append([]string{configured}, candidates...)
	}

	for _, p := range paths {
		path := expandPath(p)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			if p == configured {
				logging.LogWarn("Configured font not found", zap.String("path", path))
			}
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logging.LogWarn("Font file exists but failed to read", zap.String("path", path), zap.Error(err))
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			logging.LogWarn("Font file exists but failed to load", zap.String("path", path), zap.Error(err))
			continue
		}
		logging.LogInfo("Loaded font",
			zap.String("weight", weight),
			zap.String("path", path),
			zap.Int64("size", info.Size()))
		return f
	}

	logging.LogDebug("Using embedded Go font", zap.String("weight", weight), zap.Int("paths_checked", len(paths)))
	return mustParse(embedded)
}

func mustParse(ttf []byte) *truetype.Font {
	f, err := truetype.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
