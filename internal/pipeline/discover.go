package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/cloud-scene-etl/internal/domain"
)

// DirDiscoverer finds recognized source files in a single directory.
// It implements Discoverer.
type DirDiscoverer struct {
	logger *slog.Logger
}

// NewDiscoverer creates a directory discoverer.
func NewDiscoverer(logger *slog.Logger) *DirDiscoverer {
	return &DirDiscoverer{logger: logger}
}

// Discover globs dataPath non-recursively for each category's extensions,
// in declared order, preserving per-extension glob order. Categories with no
// matches are omitted; if every category is empty it returns
// domain.ErrNoInput.
func (d *DirDiscoverer) Discover(_ context.Context, dataPath string) (map[domain.FileType][]string, error) {
	found := make(map[domain.FileType][]string)
	for _, ft := range domain.FileTypes {
		var paths []string
		for _, ext := range ft.Extensions() {
			matches, err := filepath.Glob(filepath.Join(dataPath, "*."+ext))
			if err != nil {
				return nil, fmt.Errorf("glob *.%s in %s: %w", ext, dataPath, err)
			}
			paths = append(paths, matches...)
		}
		if len(paths) > 0 {
			found[ft] = paths
			d.logger.Debug("discovered source files", "filetype", string(ft), "count", len(paths))
		}
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w in %q", domain.ErrNoInput, dataPath)
	}
	return found, nil
}
