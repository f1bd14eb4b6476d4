// Package gridded provides a small labeled-array model and NetCDF container
// I/O for scene data. A DataArray is one variable plus the coordinate
// variables describing its dimensions, which is all the scene pipeline and
// the downstream metrics stage need from the format.
package gridded

import (
	"fmt"
	"time"
)

// Coord holds the values of a one-dimensional coordinate variable. Exactly
// one of the value slices is populated, depending on the on-disk type.
type Coord struct {
	Name    string
	Strings []string
	Times   []time.Time
	Floats  []float64
}

// Len returns the number of coordinate values.
func (c Coord) Len() int {
	switch {
	case c.Strings != nil:
		return len(c.Strings)
	case c.Times != nil:
		return len(c.Times)
	default:
		return len(c.Floats)
	}
}

// DataArray is a labeled n-dimensional array in row-major order.
type DataArray struct {
	Name   string
	Dims   []string
	Shape  []int
	Values []float64
	Coords map[string]Coord

	// Bool marks a 0/1 mask payload, stored on disk as bytes with a
	// dtype attribute since the container has no boolean type.
	Bool bool
}

// Size returns the total number of elements.
func (da *DataArray) Size() int {
	n := 1
	for _, s := range da.Shape {
		n *= s
	}
	return n
}

// HasCoord reports whether a coordinate variable named name is present.
func (da *DataArray) HasCoord(name string) bool {
	_, ok := da.Coords[name]
	return ok
}

// Coord returns the coordinate variable named name.
func (da *DataArray) Coord(name string) (Coord, bool) {
	c, ok := da.Coords[name]
	return c, ok
}

// Select returns the slice of da at position index along dimension dim. The
// dimension is removed from the result; coordinates for the remaining
// dimensions are carried over.
func (da *DataArray) Select(dim string, index int) (*DataArray, error) {
	axis := -1
	for i, d := range da.Dims {
		if d == dim {
			axis = i
			break
		}
	}
	if axis < 0 {
		return nil, fmt.Errorf("no dimension %q in %v", dim, da.Dims)
	}
	if index < 0 || index >= da.Shape[axis] {
		return nil, fmt.Errorf("index %d out of range for dimension %q (length %d)", index, dim, da.Shape[axis])
	}

	outer, inner := 1, 1
	for _, s := range da.Shape[:axis] {
		outer *= s
	}
	for _, s := range da.Shape[axis+1:] {
		inner *= s
	}
	n := da.Shape[axis]

	values := make([]float64, outer*inner)
	for o := 0; o < outer; o++ {
		src := (o*n + index) * inner
		copy(values[o*inner:(o+1)*inner], da.Values[src:src+inner])
	}

	dims := make([]string, 0, len(da.Dims)-1)
	shape := make([]int, 0, len(da.Shape)-1)
	for i, d := range da.Dims {
		if i == axis {
			continue
		}
		dims = append(dims, d)
		shape = append(shape, da.Shape[i])
	}

	coords := make(map[string]Coord)
	for _, d := range dims {
		if c, ok := da.Coords[d]; ok {
			coords[d] = c
		}
	}

	return &DataArray{
		Name:   da.Name,
		Dims:   dims,
		Shape:  shape,
		Values: values,
		Coords: coords,
		Bool:   da.Bool,
	}, nil
}
