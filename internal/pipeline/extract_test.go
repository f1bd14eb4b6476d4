package pipeline_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cloud-scene-etl/gridded"
	"github.com/couchcryptid/cloud-scene-etl/internal/domain"
	"github.com/couchcryptid/cloud-scene-etl/internal/observability"
	"github.com/couchcryptid/cloud-scene-etl/internal/pipeline"
)

func newExtractor(t *testing.T) *pipeline.SceneExtractor {
	t.Helper()
	return pipeline.NewExtractor(0.2, "scenes", slog.Default(), observability.NewMetricsForTesting())
}

// writeTestPNG writes a 2x1 image: white pixel then black pixel.
func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{A: 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestExtract_Image(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "foo.png")
	writeTestPNG(t, src)

	scenes, err := newExtractor(t).Extract(context.Background(), domain.FileTypeImage, src)
	require.NoError(t, err)
	require.Len(t, scenes, 1)

	assert.Equal(t, "foo", scenes[0].ID)
	assert.Equal(t, filepath.Join(dir, "scenes", "foo.nc"), scenes[0].Path)

	// The returned path must already exist and decode to the expected mask.
	mask, err := gridded.ReadDataArray(scenes[0].Path)
	require.NoError(t, err)
	assert.True(t, mask.Bool)
	assert.Equal(t, []int{1, 2}, mask.Shape)
	assert.Equal(t, []float64{1, 0}, mask.Values)
}

func TestExtract_GriddedSceneIDCoord(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "labelled.nc")
	require.NoError(t, gridded.WriteDataArray(src, &gridded.DataArray{
		Name:   "brightness",
		Dims:   []string{"scene_id", "x"},
		Shape:  []int{2, 2},
		Values: []float64{1, 2, 3, 4},
		Coords: map[string]gridded.Coord{
			"scene_id": {Name: "scene_id", Strings: []string{"a", "b"}},
		},
	}))

	scenes, err := newExtractor(t).Extract(context.Background(), domain.FileTypeGridded, src)
	require.NoError(t, err)
	require.Len(t, scenes, 2)

	assert.Equal(t, "a", scenes[0].ID)
	assert.Equal(t, filepath.Join(dir, "scenes", "a.nc"), scenes[0].Path)
	assert.Equal(t, "b", scenes[1].ID)
	assert.Equal(t, filepath.Join(dir, "scenes", "b.nc"), scenes[1].Path)

	sliceA, err := gridded.ReadDataArray(scenes[0].Path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, sliceA.Dims)
	assert.Equal(t, []float64{1, 2}, sliceA.Values)

	sliceB, err := gridded.ReadDataArray(scenes[1].Path)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, sliceB.Values)
}

func TestExtract_GriddedNumericSceneIDCoord(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "numbered.nc")
	require.NoError(t, gridded.WriteDataArray(src, &gridded.DataArray{
		Name:   "brightness",
		Dims:   []string{"scene_id", "x"},
		Shape:  []int{2, 2},
		Values: []float64{1, 2, 3, 4},
		Coords: map[string]gridded.Coord{
			"scene_id": {Name: "scene_id", Floats: []float64{101, 102}},
		},
	}))

	scenes, err := newExtractor(t).Extract(context.Background(), domain.FileTypeGridded, src)
	require.NoError(t, err)
	require.Len(t, scenes, 2, "numeric scene ids must yield a scene per value")

	assert.Equal(t, "101", scenes[0].ID)
	assert.Equal(t, filepath.Join(dir, "scenes", "101.nc"), scenes[0].Path)
	assert.Equal(t, "102", scenes[1].ID)

	slice, err := gridded.ReadDataArray(scenes[1].Path)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, slice.Values)
}

func TestExtract_GriddedTimeCoordMissingUnits(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "raw.nc")

	// A time coordinate with no units attribute decodes as plain numbers;
	// there is no way to derive timestamps, so extraction must fail rather
	// than return zero scenes.
	w, err := cdf.OpenWriter(src)
	require.NoError(t, err)
	require.NoError(t, w.AddVar("brightness", api.Variable{
		Values:     [][]float64{{5, 6}},
		Dimensions: []string{"time", "x"},
	}))
	require.NoError(t, w.AddVar("time", api.Variable{
		Values:     []float64{0},
		Dimensions: []string{"time"},
	}))
	require.NoError(t, w.Close())

	_, err = newExtractor(t).Extract(context.Background(), domain.FileTypeGridded, src)
	require.ErrorIs(t, err, domain.ErrUnsupportedSource)
}

func TestExtract_GriddedTimeCoord(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "grid.nc")
	require.NoError(t, gridded.WriteDataArray(src, &gridded.DataArray{
		Name:   "brightness",
		Dims:   []string{"time", "x"},
		Shape:  []int{1, 2},
		Values: []float64{5, 6},
		Coords: map[string]gridded.Coord{
			"time": {Name: "time", Times: []time.Time{
				time.Date(2021, 3, 4, 5, 6, 0, 0, time.UTC),
			}},
		},
	}))

	scenes, err := newExtractor(t).Extract(context.Background(), domain.FileTypeGridded, src)
	require.NoError(t, err)
	require.Len(t, scenes, 1)

	// Year, day, month, hour, minute: 2021, 04, 03, 05, 06.
	assert.Equal(t, "grid__202104030506", scenes[0].ID)
	assert.Equal(t, filepath.Join(dir, "scenes", "grid__202104030506.nc"), scenes[0].Path)

	slice, err := gridded.ReadDataArray(scenes[0].Path)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, slice.Values)
}

func TestExtract_GriddedUnsupportedSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.nc")
	require.NoError(t, gridded.WriteDataArray(src, &gridded.DataArray{
		Name:   "brightness",
		Dims:   []string{"y", "x"},
		Shape:  []int{2, 2},
		Values: []float64{1, 2, 3, 4},
	}))

	_, err := newExtractor(t).Extract(context.Background(), domain.FileTypeGridded, src)
	require.ErrorIs(t, err, domain.ErrUnsupportedSource)
}

func TestExtract_UnrecognizedFileType(t *testing.T) {
	_, err := newExtractor(t).Extract(context.Background(), domain.FileType("tarball"), "x.tar")
	var unrec domain.UnrecognizedFileTypeError
	require.ErrorAs(t, err, &unrec)
}

func TestExtract_StampsExtractionTime(t *testing.T) {
	frozen := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { domain.SetClock(nil) })

	dir := t.TempDir()
	src := filepath.Join(dir, "foo.png")
	writeTestPNG(t, src)

	scenes, err := newExtractor(t).Extract(context.Background(), domain.FileTypeImage, src)
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	assert.True(t, scenes[0].ExtractedAt.Equal(frozen))
}
