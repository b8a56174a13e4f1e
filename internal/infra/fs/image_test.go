package fs

import (
	"image"
	"image/color"
	"testing"

	"docviz/internal/infra/errs"
)

func TestEncodeDecodeImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	src.Set(1, 1, color.NRGBA{R: 255, A: 255})

	for _, path := range []string{"out.png", "out.JPG", "dir/out.jpeg"} {
		data, err := EncodeImage(src, path)
		if err != nil {
			t.Fatalf("EncodeImage(%s): %v", path, err)
		}
		img, err := DecodeImage(data)
		if err != nil {
			t.Fatalf("DecodeImage(%s): %v", path, err)
		}
		if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
			t.Errorf("%s: bounds %v, want 8x4", path, b)
		}
	}
}

func TestEncodeImageUnknownFormat(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	for _, path := range []string{"chart.webp", "chart"} {
		if _, err := EncodeImage(src, path); !errs.Is(err, errs.CodeInvalidFormat) {
			t.Errorf("EncodeImage(%s) = %v, want INVALID_FORMAT", path, err)
		}
	}
}

func TestDecodeImageGarbage(t *testing.T) {
	if _, err := DecodeImage([]byte("not an image")); !errs.Is(err, errs.CodeInvalidFormat) {
		t.Errorf("got %v, want INVALID_FORMAT", err)
	}
}
