// Command genfixtures writes a sample input directory for demos and manual
// testing: a gradient PNG, a gridded file with a time coordinate, and one
// with a scene_id coordinate. It uses the real gridded writer so the
// fixtures match actual pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfixtures -out data/sample
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/cloud-scene-etl/gridded"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "directory to write fixtures into")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("-out is required")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	if err := writeGradientPNG(filepath.Join(*out, "gradient.png")); err != nil {
		return err
	}
	if err := writeTimeSeries(filepath.Join(*out, "observed.nc")); err != nil {
		return err
	}
	if err := writeLabelled(filepath.Join(*out, "labelled.nc")); err != nil {
		return err
	}

	fmt.Printf("fixtures written to %s\n", *out)
	return nil
}

// writeGradientPNG writes a 64x64 left-to-right brightness gradient, so the
// default threshold yields a mask split roughly down the middle.
func writeGradientPNG(path string) error {
	const size = 64
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(x * 255 / (size - 1))
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// writeTimeSeries writes a 3-step hourly brightness series on a 4x4 grid.
func writeTimeSeries(path string) error {
	base := time.Date(2021, 3, 4, 5, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}

	values := make([]float64, len(times)*4*4)
	for i := range values {
		values[i] = float64(i%16) / 16
	}

	return gridded.WriteDataArray(path, &gridded.DataArray{
		Name:   "brightness",
		Dims:   []string{"time", "y", "x"},
		Shape:  []int{len(times), 4, 4},
		Values: values,
		Coords: map[string]gridded.Coord{
			"time": {Name: "time", Times: times},
		},
	})
}

// writeLabelled writes a file whose slices carry explicit scene ids.
func writeLabelled(path string) error {
	ids := []string{"morning", "noon", "evening"}

	values := make([]float64, len(ids)*4*4)
	for i := range values {
		values[i] = float64(i) / float64(len(values))
	}

	return gridded.WriteDataArray(path, &gridded.DataArray{
		Name:   "brightness",
		Dims:   []string{"scene_id", "y", "x"},
		Shape:  []int{len(ids), 4, 4},
		Values: values,
		Coords: map[string]gridded.Coord{
			"scene_id": {Name: "scene_id", Strings: ids},
		},
	})
}
