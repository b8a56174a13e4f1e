package illustration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docviz/internal/infra/errs"
	"docviz/internal/infra/exec"
	"docviz/internal/infra/fs"
	logging "docviz/internal/infra/log"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// outputWait bounds how long to wait for the tool's output file after it exits.
const outputWait = 5 * time.Second

// Rembg removes backgrounds with the rembg command line tool
// ("rembg i <in> <out>").
type Rembg struct {
	Command string
	Timeout time.Duration // 0 = no limit
	TempDir string        // "" = os.TempDir()
}

// Available reports whether the binary can be found.
func (r Rembg) Available() bool {
	_, err := exec.LookupTool(r.Command)
	return err == nil
}

// Remove returns data with the background cut out as a PNG with alpha.
// A missing binary is an OPTIONAL_UNAVAILABLE error.
func (r Rembg) Remove(ctx context.Context, data []byte) ([]byte, error) {
	if _, err := exec.LookupTool(r.Command); err != nil {
		return nil, err
	}

	dir := r.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	id := uuid.NewString()
	in := filepath.Join(dir, "docviz-"+id+"-in.png")
	out := filepath.Join(dir, "docviz-"+id+"-out.png")
	defer os.Remove(in)
	defer os.Remove(out)

	if err := os.WriteFile(in, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write temp image: %w", err)
	}

	start := time.Now()
	output, err := exec.RunTool(ctx, r.Command, r.Timeout, "i", in, out)
	if err != nil {
		logging.LogDebug("Background removal failed", zap.String("output", strings.TrimSpace(string(output))), zap.Error(err))
		return nil, err
	}
	if err := fs.WaitForFile(ctx, out, outputWait); err != nil {
		return nil, fmt.Errorf("%s produced no output: %w", r.Command, err)
	}

	result, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s output: %w", r.Command, err)
	}
	logging.LogInfo("Background removed",
		zap.String("tool", r.Command),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		zap.Int("bytes", len(result)))
	return result, nil
}

// errNoRemover is returned when transparency is requested without a remover.
var errNoRemover = errs.New(errs.CodeOptionalUnavailable, "no background removal tool configured")
