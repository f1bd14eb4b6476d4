// Package pipeline implements the single-pass scene-preparation run:
// discover source files, extract scenes per file, record the scene-id
// manifest. One writer, no concurrency, first error aborts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/couchcryptid/cloud-scene-etl/internal/domain"
	"github.com/couchcryptid/cloud-scene-etl/internal/observability"
)

// Discoverer finds recognized source files grouped by file type.
type Discoverer interface {
	Discover(ctx context.Context, dataPath string) (map[domain.FileType][]string, error)
}

// Extractor produces the scenes of one source file, writing each scene's
// data file as a side effect.
type Extractor interface {
	Extract(ctx context.Context, ft domain.FileType, path string) ([]domain.Scene, error)
}

// ManifestWriter persists the completed manifest.
type ManifestWriter interface {
	Write(ctx context.Context, path string, m *domain.Manifest) error
}

// Pipeline orchestrates one discover-extract-manifest pass.
type Pipeline struct {
	discoverer Discoverer
	extractor  Extractor
	writer     ManifestWriter
	logger     *slog.Logger
	metrics    *observability.Metrics

	dataPath         string
	scenesDir        string
	manifestFilename string

	ready   atomic.Bool
	entries atomic.Int64
}

// New creates a Pipeline with the given stages and observability.
func New(d Discoverer, e Extractor, w ManifestWriter, logger *slog.Logger, metrics *observability.Metrics, dataPath, scenesDir, manifestFilename string) *Pipeline {
	return &Pipeline{
		discoverer:       d,
		extractor:        e,
		writer:           w,
		logger:           logger,
		metrics:          metrics,
		dataPath:         dataPath,
		scenesDir:        scenesDir,
		manifestFilename: manifestFilename,
	}
}

// ManifestPath returns the destination of the manifest file.
func (p *Pipeline) ManifestPath() string {
	return filepath.Join(p.dataPath, p.scenesDir, p.manifestFilename)
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no run has completed yet")
	}
	return nil
}

// ManifestEntries reports the entry count of the last successful run.
// Used by the status endpoint; zero until a run completes.
func (p *Pipeline) ManifestEntries() int {
	return int(p.entries.Load())
}

// Run executes one pass. The manifest file is written only when every source
// file extracted cleanly and every scene id is unique; any error aborts the
// run with no manifest on disk.
func (p *Pipeline) Run(ctx context.Context) (*domain.Manifest, error) {
	start := domain.Now()
	p.metrics.RunActive.Set(1)
	defer p.metrics.RunActive.Set(0)

	p.logger.Info("run started", "data_path", p.dataPath)

	files, err := p.discoverer.Discover(ctx, p.dataPath)
	if err != nil {
		return nil, err
	}

	manifest := domain.NewManifest()
	for _, ft := range domain.FileTypes {
		paths := files[ft]
		if len(paths) == 0 {
			continue
		}
		p.metrics.FilesDiscovered.WithLabelValues(string(ft)).Add(float64(len(paths)))

		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			scenes, err := p.extractor.Extract(ctx, ft, path)
			if err != nil {
				p.metrics.ExtractErrors.Inc()
				return nil, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
			}
			p.metrics.ScenesExtracted.WithLabelValues(string(ft)).Add(float64(len(scenes)))

			for _, scene := range scenes {
				if err := manifest.Insert(scene.ID, scene.Path); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := p.writer.Write(ctx, p.ManifestPath(), manifest); err != nil {
		return nil, err
	}

	duration := domain.Now().Sub(start)
	p.metrics.ManifestEntries.Set(float64(manifest.Len()))
	p.metrics.RunDuration.Observe(duration.Seconds())
	p.entries.Store(int64(manifest.Len()))
	p.ready.Store(true)

	p.logger.Info("run complete",
		"scenes", manifest.Len(),
		"manifest", p.ManifestPath(),
		"duration", duration,
	)
	return manifest, nil
}
