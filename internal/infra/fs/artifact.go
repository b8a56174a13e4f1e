package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveOutputPath returns explicit when set, otherwise defaultName inside dir.
func ResolveOutputPath(explicit, dir, defaultName string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, defaultName)
}

// DefaultName joins non-empty parts with "_" and appends ext, lowercasing everything.
// DefaultName("png", "bar_chart", "Coral") == "bar_chart_coral.png"
func DefaultName(ext string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		kept = append(kept, strings.ReplaceAll(p, " ", "-"))
	}
	return strings.Join(kept, "_") + "." + strings.TrimPrefix(ext, ".")
}

// WriteArtifact persists data at path atomically: parent directories are created,
// the bytes go to a temp file in the same directory, which is renamed into place.
// Nothing is left at path if any step fails.
func WriteArtifact(path string, data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("refusing to write empty artifact %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return 0, fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("failed to move artifact into place: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat artifact: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(path)
		return 0, fmt.Errorf("artifact %s is empty after writing", path)
	}
	return info.Size(), nil
}
