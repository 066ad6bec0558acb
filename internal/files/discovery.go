package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discovery lists reconcilable files for batch runs. Results are sorted by
// name so run input order (and therefore merge order) is deterministic.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance rooted at basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindSupportedFiles returns the paths of every supported spreadsheet file
// directly inside dir (relative paths resolve against the base path).
func (d *Discovery) FindSupportedFiles(dir string) ([]string, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(fullPath, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
