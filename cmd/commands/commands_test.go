package commands

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docviz/internal/infra/errs"
)

// run executes the root command inside a temp dir so no config.yaml or .env
// from the working tree leaks in.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decodePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatalf("%s is not a PNG: %v", path, err)
	}
}

func TestBarWritesChart(t *testing.T) {
	out := filepath.Join(t.TempDir(), "img", "bar.png")
	stdout, err := run(t, "bar", "-d", `{"a":1,"b":2}`, "-t", "Test", "--dpi", "40", "-o", out)
	if err != nil {
		t.Fatalf("bar: %v", err)
	}
	decodePNG(t, out)
	if !strings.Contains(stdout, out) {
		t.Errorf("confirmation %q does not name %s", stdout, out)
	}
}

func TestBarDefaultName(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "bar", "-d", `{"a":1}`, "-c", "TEAL", "--dpi", "40", "--output-dir", dir); err != nil {
		t.Fatalf("bar: %v", err)
	}
	decodePNG(t, filepath.Join(dir, "bar_chart_teal.png"))
}

func TestChartRejectsUnknownColor(t *testing.T) {
	for _, tool := range []string{"bar", "line", "table"} {
		t.Run(tool, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "x.png")
			data := `{"a":1}`
			if tool == "table" {
				data = `[{"a":1}]`
			}
			_, err := run(t, tool, "-d", data, "--color", "chartreuse", "-o", out)
			if err == nil || !strings.Contains(err.Error(), "chartreuse") {
				t.Fatalf("got %v, want invalid --color error", err)
			}
			if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
				t.Error("output written despite invalid color")
			}
		})
	}
}

func TestDataSourceRequired(t *testing.T) {
	if _, err := run(t, "bar"); err == nil {
		t.Fatal("bar without a data source should fail")
	}
	if _, err := run(t, "line", "-d", `{"a":1}`, "--csv", "x.csv"); err == nil {
		t.Fatal("two data sources should fail")
	}
}

func TestEmptyCSVFailsWithoutOutput(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(csvPath, nil, 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "chart.png")

	_, err := run(t, "bar", "--csv", csvPath, "-o", out)
	if !errs.Is(err, errs.CodeEmptyInput) {
		t.Fatalf("got %v, want EMPTY_INPUT", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("output written for empty input")
	}
}

func TestLineMultiSeries(t *testing.T) {
	out := filepath.Join(t.TempDir(), "line.png")
	series := `{"north":{"Q1":1,"Q2":3},"south":{"Q1":2,"Q2":2},"west":{"Q1":0,"Q2":1}}`
	if _, err := run(t, "line", "--series", series, "--markers", "--dpi", "40", "-o", out); err != nil {
		t.Fatalf("line: %v", err)
	}
	decodePNG(t, out)
}

func TestTableFromCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "scores.csv")
	if err := os.WriteFile(csvPath, []byte("Name,Count\nalpha,5\nbeta,9\ngamma,3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "table.png")
	_, err := run(t, "table", "--csv", csvPath, "--highlight-row", "max:Count", "--highlight-col", "Count", "--dpi", "72", "-o", out)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	decodePNG(t, out)

	_, err = run(t, "table", "--csv", csvPath, "--highlight-col", "Nope", "-o", out)
	if !errs.Is(err, errs.CodeMissingColumn) {
		t.Fatalf("got %v, want MISSING_COLUMN", err)
	}
}

func TestIllustratePromptOnly(t *testing.T) {
	stdout, err := run(t, "illustrate", "a", "message", "queue", "--type", "diagram", "--style", "sketchy", "--prompt-only")
	if err != nil {
		t.Fatalf("illustrate: %v", err)
	}
	if !strings.Contains(stdout, "Subject: a message queue") {
		t.Errorf("prompt = %q", stdout)
	}
	// unknown style falls back to flat instead of failing
	if !strings.HasPrefix(stdout, "Flat vector illustration") {
		t.Errorf("prompt should start with the flat style directive: %q", stdout)
	}
}

func TestIllustrateRejectsBadAspect(t *testing.T) {
	if _, err := run(t, "illustrate", "x", "--aspect", "5:4", "--prompt-only"); err == nil {
		t.Fatal("unsupported aspect ratio should fail at parse time")
	}
}

func TestIllustrateNeedsAPIKey(t *testing.T) {
	_, err := run(t, "illustrate", "a lighthouse")
	if !errs.Is(err, errs.CodeInvalidInput) || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("got %v, want missing key error", err)
	}
}

func TestPalette(t *testing.T) {
	stdout, err := run(t, "palette")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"coral", "teal", "indigo", "amber"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("palette output misses %s", name)
		}
	}
}

func TestChoiceValue(t *testing.T) {
	c := newChoiceValue("1K", []string{"1K", "2K", "4K"})
	if err := c.Set("2k"); err != nil || c.String() != "2K" {
		t.Errorf("Set(2k) = %v, value %q", err, c.String())
	}
	if err := c.Set("8K"); err == nil {
		t.Error("Set(8K) should fail")
	}
	if c.String() != "2K" {
		t.Errorf("failed Set changed the value to %q", c.String())
	}
}

func TestExecuteStandaloneUnknown(t *testing.T) {
	if err := ExecuteStandalone("pie-chart"); err == nil {
		t.Fatal("unknown tool should fail")
	}
}
