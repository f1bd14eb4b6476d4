// Package cloudmask derives boolean cloud masks from true-colour scenes.
// The downstream metrics stage consumes these masks directly, so the helper
// is pure: labeled RGB array in, labeled boolean array out, no filesystem
// involvement.
package cloudmask

import (
	"fmt"

	"github.com/couchcryptid/cloud-scene-etl/gridded"
)

// DefaultThreshold is the greyscale intensity above which a pixel counts as
// cloud. A crude proxy, but sufficient for scene preparation; tuning it for
// scientific validity is out of scope here.
const DefaultThreshold = 0.2

// ITU-R BT.709 luminance weights, matching the conversion used by the rest
// of the toolchain.
const (
	lumR = 0.2125
	lumG = 0.7154
	lumB = 0.0721
)

// RGBGreyscaleMask converts a (y, x, channel) RGB or RGBA array to greyscale
// and thresholds it into a cloud mask of the 2D shape. Channel values may be
// [0, 1] floats or [0, 255] intensities; the latter are rescaled before
// thresholding. A threshold <= 0 selects DefaultThreshold. A pixel is cloud
// when its greyscale intensity is strictly greater than the threshold.
func RGBGreyscaleMask(da *gridded.DataArray, threshold float64) (*gridded.DataArray, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if len(da.Shape) != 3 {
		return nil, fmt.Errorf("want a (y, x, channel) array, got %d dimensions", len(da.Shape))
	}
	height, width, channels := da.Shape[0], da.Shape[1], da.Shape[2]
	if channels < 3 {
		return nil, fmt.Errorf("want at least 3 channels, got %d", channels)
	}

	scale := 1.0
	for _, v := range da.Values {
		if v > 1 {
			scale = 1.0 / 255.0
			break
		}
	}

	mask := make([]float64, height*width)
	for p := 0; p < height*width; p++ {
		base := p * channels
		grey := scale * (lumR*da.Values[base] + lumG*da.Values[base+1] + lumB*da.Values[base+2])
		if grey > threshold {
			mask[p] = 1
		}
	}

	dims := []string{da.Dims[0], da.Dims[1]}
	coords := make(map[string]gridded.Coord)
	for _, d := range dims {
		if c, ok := da.Coords[d]; ok {
			coords[d] = c
		}
	}

	return &gridded.DataArray{
		Name:   "cloud_mask",
		Dims:   dims,
		Shape:  []int{height, width},
		Values: mask,
		Coords: coords,
		Bool:   true,
	}, nil
}
