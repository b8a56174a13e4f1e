package fs

import (
	"bytes"
	"fmt"
	"image"

	"docviz/internal/infra/errs"

	"github.com/disintegration/imaging"
)

// EncodeImage serializes img in the format implied by path's extension
// (png, jpg/jpeg, gif, bmp, tif/tiff).
func EncodeImage(img image.Image, path string) ([]byte, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidFormat, err, "unsupported output format for %s", path)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(92)); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// DecodeImage decodes raw image bytes, honoring EXIF orientation.
func DecodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidFormat, err, "failed to decode image")
	}
	return img, nil
}
