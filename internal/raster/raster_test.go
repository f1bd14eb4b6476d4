package raster

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestReadImage_PNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 0, G: 0, B: 0, A: 255})

	path := filepath.Join(t.TempDir(), "pixels.png")
	writePNG(t, path, img)

	da, err := ReadImage(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"y", "x", "channel"}, da.Dims)
	assert.Equal(t, []int{1, 2, 3}, da.Shape)
	require.Len(t, da.Values, 6)
	assert.InDelta(t, 1.0, da.Values[0], 1e-9)
	assert.InDelta(t, 1.0, da.Values[1], 1e-9)
	assert.InDelta(t, 1.0, da.Values[2], 1e-9)
	assert.InDelta(t, 0.0, da.Values[3], 1e-9)
}

func TestReadImage_JPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "flat.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())

	da, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 3}, da.Shape)
	// JPEG is lossy; just confirm the values landed near the encoded grey.
	assert.InDelta(t, 200.0/255.0, da.Values[0], 0.05)
}

func TestReadImage_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadImage(filepath.Join(dir, "absent.png"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = ReadImage(garbage)
	assert.Error(t, err)
}
