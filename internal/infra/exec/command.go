package exec

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"docviz/internal/infra/errs"
)

// LookupTool resolves an external binary on PATH (or an explicit path).
// A missing binary is reported as an optional-capability error.
func LookupTool(name string) (string, error) {
	if name == "" {
		return "", errs.New(errs.CodeOptionalUnavailable, "no external tool configured")
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", errs.Wrap(errs.CodeOptionalUnavailable, err, "%s is not installed or not in PATH", name)
	}
	return path, nil
}

// RunTool executes an external binary with a timeout and returns its combined output.
// timeout <= 0 runs without a deadline.
func RunTool(ctx context.Context, name string, timeout time.Duration, args ...string) ([]byte, error) {
	path, err := LookupTool(name)
	if err != nil {
		return nil, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, args...)
	output, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return output, fmt.Errorf("%s timed out after %v", name, timeout)
	}
	if err != nil {
		return output, fmt.Errorf("%s failed: %w", name, err)
	}
	return output, nil
}
