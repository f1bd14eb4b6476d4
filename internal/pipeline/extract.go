package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/cloud-scene-etl/cloudmask"
	"github.com/couchcryptid/cloud-scene-etl/gridded"
	"github.com/couchcryptid/cloud-scene-etl/internal/domain"
	"github.com/couchcryptid/cloud-scene-etl/internal/observability"
	"github.com/couchcryptid/cloud-scene-etl/internal/raster"
)

// sceneTimeLayout formats time-coordinate values into scene ids as year,
// day, month, hour, minute. Day precedes month; existing scene databases key
// on ids in this form, so the ordering must not change.
const sceneTimeLayout = "200602011504"

// SceneExtractor turns one source file into one or more scene files on disk.
// It implements Extractor. Writing the scene file is part of the contract:
// every returned Scene's Path exists by the time Extract returns.
type SceneExtractor struct {
	threshold float64
	scenesDir string
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewExtractor creates a SceneExtractor. threshold is the greyscale cloud
// threshold for image sources; scenesDir is the output subdirectory name,
// created under each source file's parent.
func NewExtractor(threshold float64, scenesDir string, logger *slog.Logger, metrics *observability.Metrics) *SceneExtractor {
	return &SceneExtractor{
		threshold: threshold,
		scenesDir: scenesDir,
		logger:    logger,
		metrics:   metrics,
	}
}

// Extract dispatches on the file type category. The category set is closed;
// anything else is a programming error surfaced as
// domain.UnrecognizedFileTypeError.
func (e *SceneExtractor) Extract(_ context.Context, ft domain.FileType, path string) ([]domain.Scene, error) {
	switch ft {
	case domain.FileTypeImage:
		scene, err := e.extractImage(path)
		if err != nil {
			return nil, err
		}
		return []domain.Scene{scene}, nil
	case domain.FileTypeGridded:
		return e.extractGridded(path)
	default:
		return nil, domain.UnrecognizedFileTypeError{FileType: ft}
	}
}

// extractImage produces a single cloud-mask scene from an image file. The
// scene id is the filename stem.
func (e *SceneExtractor) extractImage(path string) (domain.Scene, error) {
	rgb, err := raster.ReadImage(path)
	if err != nil {
		return domain.Scene{}, fmt.Errorf("image scene %s: %w", filepath.Base(path), err)
	}

	mask, err := cloudmask.RGBGreyscaleMask(rgb, e.threshold)
	if err != nil {
		return domain.Scene{}, fmt.Errorf("image scene %s: %w", filepath.Base(path), err)
	}

	id := stem(path)
	return e.writeScene(path, id, mask)
}

// extractGridded slices a gridded file into scenes. Files with a scene_id
// coordinate use its values verbatim as ids; files with a time coordinate
// derive ids from the filename stem plus the formatted timestamp; anything
// else is unsupported.
func (e *SceneExtractor) extractGridded(path string) ([]domain.Scene, error) {
	da, err := gridded.ReadDataArray(path)
	if err != nil {
		return nil, fmt.Errorf("gridded scene %s: %w", filepath.Base(path), err)
	}

	// Per-file duplicate check. A single file should never yield the same
	// id twice, but a malformed coordinate could.
	seen := domain.NewManifest()
	var scenes []domain.Scene

	switch {
	case da.HasCoord("scene_id"):
		coord, _ := da.Coord("scene_id")
		ids, err := sceneIDStrings(coord)
		if err != nil {
			return nil, fmt.Errorf("gridded scene %s: %w", filepath.Base(path), err)
		}
		for i, id := range ids {
			slice, err := da.Select("scene_id", i)
			if err != nil {
				return nil, fmt.Errorf("gridded scene %s: %w", filepath.Base(path), err)
			}
			scene, err := e.writeScene(path, id, slice)
			if err != nil {
				return nil, err
			}
			if err := seen.Insert(scene.ID, scene.Path); err != nil {
				return nil, fmt.Errorf("gridded scene %s: %w", filepath.Base(path), err)
			}
			scenes = append(scenes, scene)
		}
	case da.HasCoord("time"):
		coord, _ := da.Coord("time")
		if coord.Times == nil && coord.Len() > 0 {
			return nil, fmt.Errorf("%s: time coordinate values are not timestamps (missing units attribute?): %w",
				filepath.Base(path), domain.ErrUnsupportedSource)
		}
		base := stem(path)
		for i, ts := range coord.Times {
			slice, err := da.Select("time", i)
			if err != nil {
				return nil, fmt.Errorf("gridded scene %s: %w", filepath.Base(path), err)
			}
			id := fmt.Sprintf("%s__%s", base, ts.UTC().Format(sceneTimeLayout))
			scene, err := e.writeScene(path, id, slice)
			if err != nil {
				return nil, err
			}
			if err := seen.Insert(scene.ID, scene.Path); err != nil {
				return nil, fmt.Errorf("gridded scene %s: %w", filepath.Base(path), err)
			}
			scenes = append(scenes, scene)
		}
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), domain.ErrUnsupportedSource)
	}

	return scenes, nil
}

// sceneIDStrings returns the scene_id coordinate values as identifier
// strings. String values are used verbatim; numeric values are formatted in
// their shortest decimal form.
func sceneIDStrings(c gridded.Coord) ([]string, error) {
	switch {
	case c.Strings != nil:
		return c.Strings, nil
	case c.Floats != nil:
		ids := make([]string, len(c.Floats))
		for i, v := range c.Floats {
			ids[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return ids, nil
	case c.Times != nil:
		return nil, fmt.Errorf("scene_id coordinate holds timestamps: %w", domain.ErrUnsupportedSource)
	default:
		// Coordinate exists but is empty: zero scenes.
		return nil, nil
	}
}

// writeScene writes the scene array under the scenes subdirectory of the
// source file's parent, creating it as needed.
func (e *SceneExtractor) writeScene(sourcePath, id string, da *gridded.DataArray) (domain.Scene, error) {
	outPath := filepath.Join(filepath.Dir(sourcePath), e.scenesDir, id+".nc")

	start := time.Now()
	if err := gridded.WriteDataArray(outPath, da); err != nil {
		return domain.Scene{}, fmt.Errorf("write scene %q: %w", id, err)
	}
	e.metrics.SceneWriteDuration.Observe(time.Since(start).Seconds())

	scene := domain.Scene{ID: id, Path: outPath, ExtractedAt: domain.Now()}
	e.logger.Debug("scene written", "scene_id", id, "path", outPath)
	return scene, nil
}

// stem returns the filename without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
