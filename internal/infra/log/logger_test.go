package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogWarnReachesConsole(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Swap(zap.New(core), zap.NewNop())
	defer restore()

	LogWarn("Unknown color, using default", zap.String("requested", "mauve"))

	entries := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["requested"] != "mauve" {
		t.Errorf("expected requested field, got %v", entries[0].ContextMap())
	}
}

func TestLogSuccessPrefix(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := Swap(zap.New(core), zap.NewNop())
	defer restore()

	LogSuccess("Chart saved", zap.Int64("duration_ms", 12))
	LogSuccess("Done")
	LogInfo("file only")

	all := logs.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 console entries, got %d", len(all))
	}
	if all[0].Message != "✓ Chart saved (12ms)" {
		t.Errorf("unexpected message %q", all[0].Message)
	}
	if all[1].Message != "✓ Done" {
		t.Errorf("unexpected message %q", all[1].Message)
	}
}

func TestLogResponseConsoleOnFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Swap(zap.New(core), zap.NewNop())
	defer restore()

	LogResponse("abc", 200, 5, zap.String("endpoint", "/models"))
	if logs.Len() != 0 {
		t.Fatalf("2xx responses should not reach the console, got %d entries", logs.Len())
	}

	LogResponse("abc", 503, 5, zap.String("endpoint", "/models"))
	if logs.Len() != 1 {
		t.Fatalf("expected 1 console entry, got %d", logs.Len())
	}
	if got := logs.All()[0].Message; got != "✗ HTTP request failed [503] /models" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestInitWritesFileLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	prevFile, prevConsole := loggers()
	defer Swap(prevConsole, prevFile)

	if err := Init(Options{Dir: dir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	LogInfo("rendered chart", zap.String("path", "out.png"), zap.Error(errors.New("none")))
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("read app.log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "INFO rendered chart") {
		t.Errorf("missing message in %q", line)
	}
	if !strings.Contains(line, `"path":"out.png"`) {
		t.Errorf("missing field in %q", line)
	}
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %q", a)
	}
	if a == b {
		t.Error("request ids should differ")
	}
}
