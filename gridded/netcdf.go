package gridded

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
)

// ErrMultipleVariables is returned when a source file holds more than one
// data variable. Picking a single variable out of a multi-variable file is a
// known limitation; callers must pre-split such files.
var ErrMultipleVariables = errors.New("file has multiple data variables, expected exactly one")

// ErrNoDataVariable is returned when a file holds only coordinate variables.
var ErrNoDataVariable = errors.New("file has no data variable")

const boolDtypeAttr = "dtype"

// ReadDataArray opens a NetCDF file holding exactly one data variable and
// returns it with its coordinate variables attached. A variable counts as a
// coordinate when its sole dimension carries its own name; numeric
// coordinates with a "<unit> since <epoch>" units attribute are decoded to
// timestamps.
func ReadDataArray(path string) (*DataArray, error) {
	group, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer group.Close()

	varsByName := make(map[string]*api.Variable)
	var dataNames []string
	for _, name := range group.ListVariables() {
		v, err := group.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("read variable %q in %s: %w", name, path, err)
		}
		varsByName[name] = v
		if !isCoordVar(name, v) {
			dataNames = append(dataNames, name)
		}
	}

	switch len(dataNames) {
	case 0:
		return nil, fmt.Errorf("%s: %w", path, ErrNoDataVariable)
	case 1:
		// ok
	default:
		return nil, fmt.Errorf("%s holds %v: %w", path, dataNames, ErrMultipleVariables)
	}

	dv := varsByName[dataNames[0]]
	values, shape, err := flattenValues(dv.Values)
	if err != nil {
		return nil, fmt.Errorf("decode %q in %s: %w", dataNames[0], path, err)
	}

	da := &DataArray{
		Name:   dataNames[0],
		Dims:   append([]string(nil), dv.Dimensions...),
		Shape:  shape,
		Values: values,
		Coords: make(map[string]Coord),
	}
	if s, ok := stringAttr(dv.Attributes, boolDtypeAttr); ok && s == "bool" {
		da.Bool = true
	}

	for _, dim := range dv.Dimensions {
		cv, ok := varsByName[dim]
		if !ok || !isCoordVar(dim, cv) {
			continue
		}
		coord, err := decodeCoord(dim, cv)
		if err != nil {
			return nil, fmt.Errorf("decode coordinate %q in %s: %w", dim, path, err)
		}
		da.Coords[dim] = coord
	}

	return da, nil
}

// isCoordVar reports whether v is a coordinate variable: its first dimension
// carries its own name, with at most a synthetic string-length dimension
// following for character data.
func isCoordVar(name string, v *api.Variable) bool {
	if len(v.Dimensions) == 0 || v.Dimensions[0] != name {
		return false
	}
	if len(v.Dimensions) == 1 {
		return true
	}
	_, isString := v.Values.([]string)
	return isString && len(v.Dimensions) == 2
}

// WriteDataArray writes da to path as a classic NetCDF file, creating parent
// directories as needed. Bool payloads are stored as bytes with a
// dtype attribute; time coordinates as int64 offsets with a units attribute.
func WriteDataArray(path string, da *DataArray) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create scene directory: %w", err)
	}

	w, err := cdf.OpenWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := addDataVar(w, da); err != nil {
		return fmt.Errorf("write %q to %s: %w", da.Name, path, err)
	}
	for _, dim := range da.Dims {
		coord, ok := da.Coords[dim]
		if !ok {
			continue
		}
		if err := addCoordVar(w, dim, coord); err != nil {
			return fmt.Errorf("write coordinate %q to %s: %w", dim, path, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}

func addDataVar(w api.Writer, da *DataArray) error {
	var (
		values any
		attrs  api.AttributeMap
	)
	if da.Bool {
		bytes := make([]int8, len(da.Values))
		for i, v := range da.Values {
			if v != 0 {
				bytes[i] = 1
			}
		}
		values = nestSlice(bytes, da.Shape)
		am, err := util.NewOrderedMap(
			[]string{boolDtypeAttr},
			map[string]any{boolDtypeAttr: "bool"},
		)
		if err != nil {
			return err
		}
		attrs = am
	} else {
		values = nestSlice(da.Values, da.Shape)
	}

	return w.AddVar(da.Name, api.Variable{
		Values:     values,
		Dimensions: append([]string(nil), da.Dims...),
		Attributes: attrs,
	})
}

func addCoordVar(w api.Writer, dim string, coord Coord) error {
	v := api.Variable{Dimensions: []string{dim}}
	switch {
	case coord.Strings != nil:
		v.Values = append([]string(nil), coord.Strings...)
	case coord.Times != nil:
		v.Values = encodeTimes(coord.Times)
		am, err := util.NewOrderedMap(
			[]string{"units"},
			map[string]any{"units": encodeTimeUnits},
		)
		if err != nil {
			return err
		}
		v.Attributes = am
	default:
		v.Values = append([]float64(nil), coord.Floats...)
	}
	return w.AddVar(dim, v)
}

func decodeCoord(name string, cv *api.Variable) (Coord, error) {
	if ss, ok := cv.Values.([]string); ok {
		return Coord{Name: name, Strings: append([]string(nil), ss...)}, nil
	}

	values, shape, err := flattenValues(cv.Values)
	if err != nil {
		return Coord{}, err
	}
	if len(shape) != 1 {
		return Coord{}, fmt.Errorf("coordinate %q is not one-dimensional", name)
	}

	if units, ok := stringAttr(cv.Attributes, "units"); ok {
		if _, _, err := parseTimeUnits(units); err == nil {
			times, err := decodeTimes(values, units)
			if err != nil {
				return Coord{}, err
			}
			return Coord{Name: name, Times: times}, nil
		}
	}
	return Coord{Name: name, Floats: values}, nil
}

// stringAttr extracts a string-valued attribute from an attribute map.
func stringAttr(attrs api.AttributeMap, key string) (string, bool) {
	if attrs == nil {
		return "", false
	}
	val, has := attrs.Get(key)
	if !has {
		return "", false
	}
	switch s := val.(type) {
	case string:
		return s, true
	case []string:
		if len(s) > 0 {
			return s[0], true
		}
	}
	return "", false
}

// flattenValues converts arbitrarily nested numeric slices, as returned by
// the NetCDF reader, into a flat row-major float64 slice plus its shape.
func flattenValues(raw any) ([]float64, []int, error) {
	v := reflect.ValueOf(raw)
	var shape []int
	probe := v
	for probe.Kind() == reflect.Slice {
		shape = append(shape, probe.Len())
		if probe.Len() == 0 {
			break
		}
		probe = probe.Index(0)
	}
	if len(shape) == 0 {
		return nil, nil, fmt.Errorf("unsupported value type %T", raw)
	}

	size := 1
	for _, s := range shape {
		size *= s
	}
	out := make([]float64, 0, size)
	var err error
	out, err = appendFlat(out, v, len(shape))
	if err != nil {
		return nil, nil, err
	}
	if len(out) != size {
		return nil, nil, fmt.Errorf("ragged array: got %d values for shape %v", len(out), shape)
	}
	return out, shape, nil
}

func appendFlat(out []float64, v reflect.Value, depth int) ([]float64, error) {
	if depth > 1 {
		for i := 0; i < v.Len(); i++ {
			var err error
			out, err = appendFlat(out, v.Index(i), depth-1)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	for i := 0; i < v.Len(); i++ {
		e := v.Index(i)
		switch e.Kind() {
		case reflect.Float32, reflect.Float64:
			out = append(out, e.Float())
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out = append(out, float64(e.Int()))
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out = append(out, float64(e.Uint()))
		default:
			return nil, fmt.Errorf("unsupported element type %s", e.Kind())
		}
	}
	return out, nil
}

// nestSlice reshapes a flat slice into nested slices matching shape, which
// is what the CDF writer expects for multi-dimensional variables.
func nestSlice[T any](flat []T, shape []int) any {
	return nestValue(reflect.ValueOf(flat), shape).Interface()
}

func nestValue(v reflect.Value, shape []int) reflect.Value {
	if len(shape) <= 1 {
		return v
	}
	n := shape[0]
	chunk := v.Len() / n
	first := nestValue(v.Slice(0, chunk), shape[1:])
	out := reflect.MakeSlice(reflect.SliceOf(first.Type()), n, n)
	out.Index(0).Set(first)
	for i := 1; i < n; i++ {
		out.Index(i).Set(nestValue(v.Slice(i*chunk, (i+1)*chunk), shape[1:]))
	}
	return out
}
