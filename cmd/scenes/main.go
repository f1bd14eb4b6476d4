// Command scenes partitions a directory of raw observation files (png/jpg
// images and nc/nc4 gridded arrays) into per-scene NetCDF files and records
// a scene_id → path manifest for the downstream cloud-metrics stage.
//
// Usage:
//
//	scenes --data-path /data/goes16
//
// On success the manifest is written to <data-path>/scenes/scene_ids.yml.
// Any failure (no input, unsupported source format, duplicate scene id)
// exits non-zero without writing a manifest.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/cloud-scene-etl/internal/adapter/http"
	"github.com/couchcryptid/cloud-scene-etl/internal/config"
	"github.com/couchcryptid/cloud-scene-etl/internal/observability"
	"github.com/couchcryptid/cloud-scene-etl/internal/pipeline"
)

func main() {
	dataPath := flag.String("data-path", "", "directory containing raw observation files (overrides DATA_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	extractor := pipeline.NewExtractor(cfg.GreyscaleThreshold, cfg.ScenesDir, logger, metrics)
	p := pipeline.New(
		pipeline.NewDiscoverer(logger),
		extractor,
		pipeline.NewManifestFileWriter(logger),
		logger, metrics,
		cfg.DataPath, cfg.ScenesDir, cfg.ManifestFilename,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional metrics listener for long extraction runs
	// (feature-flagged via METRICS_ADDR).
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	_, runErr := p.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("run failed", "error", runErr)
		os.Exit(1)
	}
}
