package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config holds all pipeline settings, populated from environment variables.
// The data path can additionally be overridden by the --data-path CLI flag.
type Config struct {
	DataPath         string
	ScenesDir        string
	ManifestFilename string

	// GreyscaleThreshold is the intensity above which an image pixel counts
	// as cloud.
	GreyscaleThreshold float64

	LogLevel  string
	LogFormat string

	// MetricsAddr enables the metrics/health HTTP listener when non-empty.
	// Off by default: most runs are short-lived batch invocations.
	MetricsAddr string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	threshold, err := parseThreshold(envOrDefault("GREYSCALE_THRESHOLD", "0.2"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataPath:           envOrDefault("DATA_PATH", "."),
		ScenesDir:          envOrDefault("SCENES_DIR", "scenes"),
		ManifestFilename:   envOrDefault("MANIFEST_FILENAME", "scene_ids.yml"),
		GreyscaleThreshold: threshold,
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr:        os.Getenv("METRICS_ADDR"),
	}

	if cfg.ScenesDir == "" {
		return nil, errors.New("SCENES_DIR must not be empty")
	}
	if cfg.ManifestFilename == "" {
		return nil, errors.New("MANIFEST_FILENAME must not be empty")
	}

	return cfg, nil
}

func parseThreshold(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid GREYSCALE_THRESHOLD %q: %w", s, err)
	}
	if v <= 0 || v >= 1 {
		return 0, fmt.Errorf("GREYSCALE_THRESHOLD %v out of range (0, 1)", v)
	}
	return v, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
