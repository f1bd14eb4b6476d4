package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/cloud-scene-etl/internal/domain"
)

// ManifestFileWriter serializes a manifest as a block-style YAML mapping.
// It implements ManifestWriter.
type ManifestFileWriter struct {
	logger *slog.Logger
}

// NewManifestFileWriter creates a manifest writer.
func NewManifestFileWriter(logger *slog.Logger) *ManifestFileWriter {
	return &ManifestFileWriter{logger: logger}
}

// Write serializes m to path, truncating any previous file. Keys are sorted
// so output never depends on map iteration order.
func (w *ManifestFileWriter) Write(_ context.Context, path string, m *domain.Manifest) error {
	ids := m.IDs()
	sort.Strings(ids)

	// Build an explicit mapping node to force block style regardless of
	// entry count.
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range ids {
		scenePath, _ := m.Path(id)
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: id},
			&yaml.Node{Kind: yaml.ScalarNode, Value: scenePath},
		)
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("serialize manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}

	w.logger.Info("manifest written", "path", path, "entries", m.Len())
	return nil
}

// ReadManifest parses a manifest file back into an id → path mapping.
func ReadManifest(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	entries := make(map[string]string)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return entries, nil
}
