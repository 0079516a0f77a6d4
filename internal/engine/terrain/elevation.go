package terrain

import (
	"github.com/Faultbox/astria/internal/engine/texture"
)

// ElevationGrid is an immutable rows × cols grid of heights in [0, 1].
type ElevationGrid struct {
	rows    int
	cols    int
	samples []float32
}

// NewElevationGrid builds a grid from row-major samples. The slice is copied.
func NewElevationGrid(rows, cols int, samples []float32) (*ElevationGrid, error) {
	if err := checkDimensions("grid", rows, cols, 1, len(samples) > 0); err != nil {
		return nil, err
	}
	if len(samples) != rows*cols {
		return nil, &FormatError{Source: "grid", Width: cols, Height: rows, BytesPerPixel: 1, Err: ErrEmptyImage}
	}
	return &ElevationGrid{rows: rows, cols: cols, samples: append([]float32(nil), samples...)}, nil
}

// SampleElevation reads the first byte of every pixel as the height channel.
// Image height maps to rows and image width to columns.
func SampleElevation(source string, px texture.Pixels) (*ElevationGrid, error) {
	if err := checkDimensions(source, px.Height, px.Width, px.BytesPerPixel, len(px.Data) > 0); err != nil {
		return nil, err
	}
	if len(px.Data) < px.Height*px.Stride() {
		return nil, &FormatError{Source: source, Width: px.Width, Height: px.Height, BytesPerPixel: px.BytesPerPixel, Err: ErrEmptyImage}
	}

	g := &ElevationGrid{
		rows:    px.Height,
		cols:    px.Width,
		samples: make([]float32, px.Width*px.Height),
	}
	for i := 0; i < g.rows; i++ {
		row := px.Data[i*px.Stride():]
		for j := 0; j < g.cols; j++ {
			g.samples[i*g.cols+j] = float32(row[j*px.BytesPerPixel]) / 255.0
		}
	}
	return g, nil
}

func checkDimensions(source string, rows, cols, bpp int, hasData bool) error {
	fail := func(err error) error {
		return &FormatError{Source: source, Width: cols, Height: rows, BytesPerPixel: bpp, Err: err}
	}
	switch {
	case bpp != 1 && bpp != 3 && bpp != 4:
		return fail(ErrUnsupportedPixelFormat)
	case !hasData || rows <= 0 || cols <= 0:
		return fail(ErrEmptyImage)
	case rows < 2 || cols < 2:
		return fail(ErrDegenerateGrid)
	}
	return nil
}

// Rows returns the number of sample rows.
func (g *ElevationGrid) Rows() int { return g.rows }

// Cols returns the number of sample columns.
func (g *ElevationGrid) Cols() int { return g.cols }

// At returns the sample at (row, col).
func (g *ElevationGrid) At(row, col int) float32 {
	return g.samples[row*g.cols+col]
}

// Stats returns the minimum, maximum and mean sample.
func (g *ElevationGrid) Stats() (lo, hi, mean float32) {
	lo, hi = 1, 0
	var sum float64
	for _, s := range g.samples {
		lo = min(lo, s)
		hi = max(hi, s)
		sum += float64(s)
	}
	return lo, hi, float32(sum / float64(len(g.samples)))
}
