package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/flowgen/internal/log"
)

// Download writes text to dir/name, creating dir when needed, and returns
// the written path. An existing file with the same name is replaced.
func Download(dir, name, text string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil { //nolint:gosec // G306: exported workflows are meant to be shared
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	log.Info(log.CatExport, "Workflow written", "path", path, "bytes", len(text))
	return path, nil
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
