// SPDX-License-Identifier: MIT

package ncgrid

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/katalvlaran/curvgrid/curvilinear"
	"github.com/katalvlaran/curvgrid/vecmath"
)

const (
	opLoad  = "ncgrid.Load"
	opWrite = "ncgrid.Write"

	// axesAttribute is the global attribute listing the axis variables,
	// comma separated, in axis order.
	axesAttribute = "axes"
)

// Layout names the variables that make up a grid.
type Layout struct {
	// Axes lists one position variable per world coordinate. When empty,
	// Load falls back to the file's global "axes" attribute.
	Axes []string
	// Value is the value variable; empty means no values.
	Value string
}

// Load reads a grid from the netCDF file rw. Positions come from the axis
// variables of layout and values from layout.Value. opts are passed to
// curvilinear.New.
func Load(rw cdf.ReaderWriterAt, layout Layout, opts ...curvilinear.Option) (*curvilinear.Grid[float64], error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}

	axes := layout.Axes
	if len(axes) == 0 {
		axes = axesFromHeader(f.Header)
	}
	if len(axes) == 0 {
		return nil, fmt.Errorf("%s: %w", opLoad, ErrNoAxes)
	}

	known := f.Header.Variables()
	for _, name := range append(slices.Clone(axes), layout.Value) {
		if name != "" && !slices.Contains(known, name) {
			return nil, fmt.Errorf("%s: %q: %w", opLoad, name, ErrMissingVariable)
		}
	}

	shape := f.Header.Lengths(axes[0])
	if len(shape) != len(axes) {
		return nil, fmt.Errorf("%s: %q has %d dimensions, want %d: %w",
			opLoad, axes[0], len(shape), len(axes), ErrShapeMismatch)
	}

	// Positions are staged as an (size..., N) array, the same layout the
	// grid stores them in.
	n := len(axes)
	stage := sparse.ZerosDense(append(slices.Clone(shape), n)...)
	for d, name := range axes {
		data, err := readVariable(f, name, shape)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opLoad, err)
		}
		for i, v := range data {
			stage.Elements[i*n+d] = float64(v)
		}
	}

	var values []float64
	if layout.Value != "" {
		data, err := readVariable(f, layout.Value, shape)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opLoad, err)
		}
		values = make([]float64, len(data))
		for i, v := range data {
			values[i] = float64(v)
		}
	}

	g, err := curvilinear.New[float64](shape, vecmath.Scalar{}, stage.Elements, values, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}
	return g, nil
}

// LoadFile opens path and loads a grid from it.
func LoadFile(path string, layout Layout, opts ...curvilinear.Option) (*curvilinear.Grid[float64], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}
	defer f.Close()
	return Load(f, layout, opts...)
}

// readVariable reads the float32 variable name, checking it has shape.
func readVariable(f *cdf.File, name string, shape []int) ([]float32, error) {
	lengths := f.Header.Lengths(name)
	if !slices.Equal(lengths, shape) {
		return nil, fmt.Errorf("%q has shape %v, want %v: %w", name, lengths, shape, ErrShapeMismatch)
	}
	count := 1
	for _, l := range shape {
		count *= l
	}
	data := make([]float32, count)
	r := f.Reader(name, nil, nil)
	if _, err := r.Read(data); err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	return data, nil
}

// axesFromHeader returns the axis names stored by Write, or nil.
func axesFromHeader(h *cdf.Header) []string {
	s, ok := h.GetAttribute("", axesAttribute).(string)
	if !ok || s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Write stores g in the netCDF file w using the variable names of layout.
// layout.Axes must name one variable per grid axis; values are written only
// when layout.Value is set. Data is narrowed to float32.
func Write(w *os.File, g *curvilinear.Grid[float64], layout Layout) error {
	n := g.Dims()
	if len(layout.Axes) != n {
		return fmt.Errorf("%s: %d axis names for a %d-D grid: %w", opWrite, len(layout.Axes), n, ErrShapeMismatch)
	}
	seen := make(map[string]bool, n+1)
	for _, name := range append(slices.Clone(layout.Axes), layout.Value) {
		if name != "" && seen[name] {
			return fmt.Errorf("%s: variable %q named twice: %w", opWrite, name, ErrShapeMismatch)
		}
		seen[name] = true
	}
	size := g.Size()
	dimNames := make([]string, n)
	for d := range dimNames {
		dimNames[d] = fmt.Sprintf("d%d", d)
	}

	h := cdf.NewHeader(dimNames, size)
	h.AddAttribute("", "comment", "curvilinear grid vertex positions and values")
	h.AddAttribute("", axesAttribute, strings.Join(layout.Axes, ","))

	// Sort the names so they write in the same order every time.
	names := slices.Clone(layout.Axes)
	if layout.Value != "" {
		names = append(names, layout.Value)
	}
	slices.Sort(names)
	for _, name := range names {
		h.AddVariable(name, dimNames, []float32{0})
	}
	h.Define()

	data := make(map[string]*sparse.DenseArray, len(names))
	positions := g.Positions()
	for d, name := range layout.Axes {
		a := sparse.ZerosDense(size...)
		for v := range a.Elements {
			a.Elements[v] = positions[v*n+d]
		}
		data[name] = a
	}
	if layout.Value != "" {
		a := sparse.ZerosDense(size...)
		copy(a.Elements, g.Values())
		data[layout.Value] = a
	}

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("%s: %w", opWrite, err)
	}
	for _, name := range names {
		if err = writeVariable(f, name, data[name]); err != nil {
			return fmt.Errorf("%s: writing variable %s: %w", opWrite, name, err)
		}
	}
	if err = cdf.UpdateNumRecs(w); err != nil {
		return fmt.Errorf("%s: %w", opWrite, err)
	}
	return nil
}

// writeVariable writes data, narrowed to float32, as the whole of name.
func writeVariable(f *cdf.File, name string, data *sparse.DenseArray) error {
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data32)
	return err
}
