package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		dir      string
		def      string
		want     string
	}{
		{"explicit wins", "out/chart.png", "charts", "bar_chart_coral.png", "out/chart.png"},
		{"default in dir", "", "charts", "bar_chart_coral.png", filepath.Join("charts", "bar_chart_coral.png")},
		{"default in cwd", "  ", "", "table_teal.png", "table_teal.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveOutputPath(tt.explicit, tt.dir, tt.def); got != tt.want {
				t.Errorf("ResolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultName(t *testing.T) {
	if got := DefaultName("png", "bar_chart", "Coral"); got != "bar_chart_coral.png" {
		t.Errorf("got %q", got)
	}
	if got := DefaultName(".png", "illustration", "Hero", "", "teal"); got != "illustration_hero_teal.png" {
		t.Errorf("got %q", got)
	}
}

func TestWriteArtifactCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "chart.png")
	size, err := WriteArtifact(path, []byte("png-bytes"))
	if err != nil {
		t.Fatalf("WriteArtifact() error = %v", err)
	}
	if size != int64(len("png-bytes")) {
		t.Errorf("size = %d", size)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "png-bytes" {
		t.Fatalf("unexpected content %q (%v)", got, err)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteArtifactRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	if _, err := WriteArtifact(path, nil); err == nil {
		t.Fatal("expected error for empty artifact")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created for an empty artifact")
	}
}

func TestWaitForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.png")
	go func() {
		time.Sleep(30 * time.Millisecond)
		os.WriteFile(path, []byte("x"), 0644)
	}()
	if err := WaitForFile(context.Background(), path, 2*time.Second); err != nil {
		t.Fatalf("WaitForFile() error = %v", err)
	}

	missing := filepath.Join(t.TempDir(), "never.png")
	if err := WaitForFile(context.Background(), missing, 50*time.Millisecond); err == nil {
		t.Fatal("expected timeout")
	}
}
