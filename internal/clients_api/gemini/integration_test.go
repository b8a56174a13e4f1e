//go:build integration

package gemini

import (
	"context"
	"os"
	"testing"
	"time"

	"docviz/internal/infra/config"
)

func TestGenerateImageLive(t *testing.T) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	c, err := NewClient(config.GeminiConfig{APIKey: key, Model: os.Getenv("GEMINI_IMAGE_MODEL"), RateLimit: 1})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	img, err := c.GenerateImage(ctx, ImageRequest{
		Prompt:      "A flat vector icon of a paper airplane, coral accents, white background",
		AspectRatio: "1:1",
		ImageSize:   "1K",
	})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if len(img.Data) == 0 {
		t.Fatal("empty image")
	}
	t.Logf("got %d bytes of %s", len(img.Data), img.MimeType)
}
