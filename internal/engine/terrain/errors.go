package terrain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPixelFormat reports a bytes-per-pixel value other than 1, 3 or 4.
	ErrUnsupportedPixelFormat = errors.New("unsupported bytes per pixel")
	// ErrEmptyImage reports a missing pixel buffer or a zero width or height.
	ErrEmptyImage = errors.New("empty image")
	// ErrDegenerateGrid reports a heightmap with a single row or column.
	ErrDegenerateGrid = errors.New("heightmap needs at least 2 rows and 2 columns")
	// ErrNothingToReload is returned by Reload before any successful load.
	ErrNothingToReload = errors.New("no heightmap source to reload")
)

// DecodeError means the heightmap image could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error loading heightmap %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FormatError means the decoded pixels cannot be used as a heightmap.
type FormatError struct {
	Source        string
	Width         int
	Height        int
	BytesPerPixel int
	Err           error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("error loading heightmap %s: incorrect image format (%dx%d, %d bytes per pixel): %v",
		e.Source, e.Width, e.Height, e.BytesPerPixel, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
