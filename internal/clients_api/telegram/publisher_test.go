package telegram

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docviz/internal/infra/errs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, f.err
}

func artifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.png")
	if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPublishPhoto(t *testing.T) {
	path := artifact(t)
	tests := []struct {
		chat        string
		wantID      int64
		wantChannel string
	}{
		{"-100123", -100123, ""},
		{"@docs", 0, "@docs"},
		{"docs", 0, "@docs"},
	}
	for _, tt := range tests {
		s := &fakeSender{}
		if err := NewPublisherWithSender(s).PublishPhoto(tt.chat, path, "Quarterly sales"); err != nil {
			t.Fatalf("PublishPhoto(%q): %v", tt.chat, err)
		}
		photo, ok := s.sent[0].(tgbotapi.PhotoConfig)
		if !ok {
			t.Fatalf("sent %T, want PhotoConfig", s.sent[0])
		}
		if photo.ChatID != tt.wantID || photo.ChannelUsername != tt.wantChannel {
			t.Errorf("chat %q -> id=%d channel=%q", tt.chat, photo.ChatID, photo.ChannelUsername)
		}
		if photo.Caption != "Quarterly sales" {
			t.Errorf("caption = %q", photo.Caption)
		}
	}
}

func TestPublishPhotoErrors(t *testing.T) {
	if err := NewPublisherWithSender(&fakeSender{}).PublishPhoto(" ", artifact(t), ""); !errs.Is(err, errs.CodeInvalidInput) {
		t.Errorf("empty chat: got %v", err)
	}
	if err := NewPublisherWithSender(&fakeSender{}).PublishPhoto("1", filepath.Join(t.TempDir(), "nope.png"), ""); err == nil {
		t.Error("missing artifact should fail")
	}
	s := &fakeSender{err: errors.New("Bad Request: chat not found")}
	if err := NewPublisherWithSender(s).PublishPhoto("1", artifact(t), ""); err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("send failure: got %v", err)
	}
}

func TestNewPublisherWithoutToken(t *testing.T) {
	if _, err := NewPublisher(""); !errs.Is(err, errs.CodeOptionalUnavailable) {
		t.Fatalf("got %v, want OPTIONAL_UNAVAILABLE", err)
	}
}

func TestTruncateCaption(t *testing.T) {
	long := strings.Repeat("é", maxCaption+10)
	got := []rune(truncateCaption(long))
	if len(got) != maxCaption || got[len(got)-1] != '…' {
		t.Errorf("len = %d, last = %q", len(got), got[len(got)-1])
	}
}
