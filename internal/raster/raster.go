// Package raster decodes raster image files into labeled RGB arrays.
package raster

import (
	"fmt"
	"image"
	"os"

	// Register the decoders for the recognized image extensions.
	_ "image/jpeg"
	_ "image/png"

	"github.com/couchcryptid/cloud-scene-etl/gridded"
)

// ReadImage decodes a PNG or JPEG file into a (y, x, channel) array with
// channel values scaled to [0, 1]. Alpha is dropped; the mask conversion
// only looks at RGB.
func ReadImage(path string) (*gridded.DataArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	height, width := bounds.Dy(), bounds.Dx()
	values := make([]float64, 0, height*width*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			values = append(values,
				float64(r)/0xffff,
				float64(g)/0xffff,
				float64(b)/0xffff,
			)
		}
	}

	return &gridded.DataArray{
		Name:   "image",
		Dims:   []string{"y", "x", "channel"},
		Shape:  []int{height, width, 3},
		Values: values,
	}, nil
}
