package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder registration
)

// Pixels is a tightly packed, top-to-bottom pixel buffer.
// Row y starts at Data[y*Width*BytesPerPixel].
type Pixels struct {
	Width         int
	Height        int
	BytesPerPixel int
	Data          []byte
}

// Stride returns the length of one row in bytes.
func (p Pixels) Stride() int {
	return p.Width * p.BytesPerPixel
}

// At returns the bytes of pixel (x, y).
func (p Pixels) At(x, y int) []byte {
	i := y*p.Stride() + x*p.BytesPerPixel
	return p.Data[i : i+p.BytesPerPixel]
}

func (p *Pixels) flipRows() {
	stride := p.Stride()
	tmp := make([]byte, stride)
	for top, bottom := 0, p.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := p.Data[top*stride : (top+1)*stride]
		b := p.Data[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// FromImage converts a decoded image into a pixel buffer. The byte layout
// follows the image's native model: Gray and Paletted give 1 byte per pixel,
// Gray16 gives 2 (big-endian), RGBA and NRGBA give 4. Anything else is
// converted to NRGBA.
func FromImage(img image.Image) Pixels {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		return packRows(src.Pix, src.Stride, src.PixOffset(b.Min.X, b.Min.Y), w, h, 1)
	case *image.Paletted:
		return packRows(src.Pix, src.Stride, src.PixOffset(b.Min.X, b.Min.Y), w, h, 1)
	case *image.Gray16:
		return packRows(src.Pix, src.Stride, src.PixOffset(b.Min.X, b.Min.Y), w, h, 2)
	case *image.RGBA:
		return packRows(src.Pix, src.Stride, src.PixOffset(b.Min.X, b.Min.Y), w, h, 4)
	case *image.NRGBA:
		return packRows(src.Pix, src.Stride, src.PixOffset(b.Min.X, b.Min.Y), w, h, 4)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return packRows(dst.Pix, dst.Stride, 0, w, h, 4)
}

func packRows(pix []byte, stride, offset, w, h, bpp int) Pixels {
	px := Pixels{Width: w, Height: h, BytesPerPixel: bpp}
	if w <= 0 || h <= 0 {
		return px
	}
	rowLen := w * bpp
	px.Data = make([]byte, rowLen*h)
	for y := 0; y < h; y++ {
		start := offset + y*stride
		copy(px.Data[y*rowLen:], pix[start:start+rowLen])
	}
	return px
}

// Decode decodes image data. TGA is picked by file extension since it has no
// magic number; everything else goes through the registered image decoders.
func Decode(name string, data []byte) (Pixels, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGAPixels(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Pixels{}, err
	}
	return FromImage(img), nil
}

// LoadFile reads and decodes an image file.
func LoadFile(path string) (Pixels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pixels{}, err
	}
	px, err := Decode(path, data)
	if err != nil {
		return Pixels{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return px, nil
}
