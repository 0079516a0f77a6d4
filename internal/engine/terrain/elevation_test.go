package terrain

import (
	"errors"
	"testing"

	"github.com/Faultbox/astria/internal/engine/texture"
)

func TestSampleElevationFirstByte(t *testing.T) {
	tests := []struct {
		name string
		bpp  int
		data []byte
	}{
		{"gray", 1, []byte{0, 51, 102, 255}},
		{"rgb", 3, []byte{0, 9, 9, 51, 9, 9, 102, 9, 9, 255, 9, 9}},
		{"rgba", 4, []byte{0, 1, 2, 3, 51, 1, 2, 3, 102, 1, 2, 3, 255, 1, 2, 3}},
	}
	want := []float32{0, 0.2, 0.4, 1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px := texture.Pixels{Width: 2, Height: 2, BytesPerPixel: tt.bpp, Data: tt.data}
			g, err := SampleElevation(tt.name, px)
			if err != nil {
				t.Fatalf("SampleElevation: %v", err)
			}
			if g.Rows() != 2 || g.Cols() != 2 {
				t.Fatalf("grid is %dx%d, want 2x2", g.Rows(), g.Cols())
			}
			for k, w := range want {
				if got := g.At(k/2, k%2); got != w {
					t.Errorf("sample %d = %v, want %v", k, got, w)
				}
			}
		})
	}
}

func TestSampleElevationRowsFollowImageHeight(t *testing.T) {
	// 3 wide, 2 high
	px := texture.Pixels{Width: 3, Height: 2, BytesPerPixel: 1, Data: []byte{0, 0, 255, 255, 0, 0}}
	g, err := SampleElevation("wide", px)
	if err != nil {
		t.Fatalf("SampleElevation: %v", err)
	}
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("grid is %dx%d, want 2 rows x 3 cols", g.Rows(), g.Cols())
	}
	if g.At(0, 2) != 1 || g.At(1, 0) != 1 || g.At(1, 1) != 0 {
		t.Errorf("unexpected samples: %v %v %v", g.At(0, 2), g.At(1, 0), g.At(1, 1))
	}
}

func TestSampleElevationRejects(t *testing.T) {
	tests := []struct {
		name string
		px   texture.Pixels
		want error
	}{
		{"two bytes per pixel", texture.Pixels{Width: 2, Height: 2, BytesPerPixel: 2, Data: make([]byte, 8)}, ErrUnsupportedPixelFormat},
		{"zero bytes per pixel", texture.Pixels{Width: 2, Height: 2, Data: make([]byte, 4)}, ErrUnsupportedPixelFormat},
		{"no data", texture.Pixels{Width: 2, Height: 2, BytesPerPixel: 1}, ErrEmptyImage},
		{"zero width", texture.Pixels{Height: 2, BytesPerPixel: 1, Data: []byte{1}}, ErrEmptyImage},
		{"short data", texture.Pixels{Width: 2, Height: 2, BytesPerPixel: 3, Data: make([]byte, 6)}, ErrEmptyImage},
		{"single row", texture.Pixels{Width: 4, Height: 1, BytesPerPixel: 1, Data: make([]byte, 4)}, ErrDegenerateGrid},
		{"single column", texture.Pixels{Width: 1, Height: 4, BytesPerPixel: 1, Data: make([]byte, 4)}, ErrDegenerateGrid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := SampleElevation("bad.png", tt.px)
			if g != nil {
				t.Errorf("got grid %dx%d, want nil", g.Rows(), g.Cols())
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %T, want *FormatError", err)
			}
			if fe.Source != "bad.png" || fe.BytesPerPixel != tt.px.BytesPerPixel {
				t.Errorf("FormatError = %+v", fe)
			}
		})
	}
}

func TestNewElevationGrid(t *testing.T) {
	samples := []float32{0, 1, 0.5, 0.25}
	g, err := NewElevationGrid(2, 2, samples)
	if err != nil {
		t.Fatalf("NewElevationGrid: %v", err)
	}
	samples[0] = 9
	if g.At(0, 0) != 0 {
		t.Error("grid shares the caller's slice")
	}

	if _, err := NewElevationGrid(2, 3, samples); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("mismatched sample count: err = %v", err)
	}
	if _, err := NewElevationGrid(1, 4, samples); !errors.Is(err, ErrDegenerateGrid) {
		t.Errorf("single row: err = %v", err)
	}
}

func TestElevationStats(t *testing.T) {
	g := mustGrid(t, 2, 2, []float32{0.2, 0.4, 0.6, 0.8})
	lo, hi, mean := g.Stats()
	if lo != 0.2 || hi != 0.8 {
		t.Errorf("Stats range = [%v, %v], want [0.2, 0.8]", lo, hi)
	}
	if mean < 0.4999 || mean > 0.5001 {
		t.Errorf("Stats mean = %v, want 0.5", mean)
	}
}

func TestErrorMessages(t *testing.T) {
	de := &DecodeError{Path: "maps/x.png", Err: errors.New("boom")}
	if got := de.Error(); got != "error loading heightmap maps/x.png: boom" {
		t.Errorf("DecodeError = %q", got)
	}
	fe := &FormatError{Source: "x.png", Width: 4, Height: 3, BytesPerPixel: 2, Err: ErrUnsupportedPixelFormat}
	want := "error loading heightmap x.png: incorrect image format (4x3, 2 bytes per pixel): unsupported bytes per pixel"
	if got := fe.Error(); got != want {
		t.Errorf("FormatError = %q, want %q", got, want)
	}
}
