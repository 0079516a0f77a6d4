// Package texture provides image decoding into raw pixel buffers.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeGray         = 3  // Uncompressed grayscale
	TGATypeRLE          = 10 // RLE compressed true-color
	TGATypeGrayRLE      = 11 // RLE compressed grayscale
)

const (
	tgaHeaderSize      = 18
	tgaDescTopToBottom = 0x20
)

var errTGATruncated = errors.New("TGA data truncated")

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("TGA data too short")
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		topToBottom: data[17]&tgaDescTopToBottom != 0,
	}

	if data[1] != 0 {
		return h, fmt.Errorf("color-mapped TGA not supported")
	}
	switch h.imageType {
	case TGATypeUncompressed, TGATypeRLE:
		if h.bpp != 24 && h.bpp != 32 {
			return h, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", h.bpp)
		}
	case TGATypeGray, TGATypeGrayRLE:
		if h.bpp != 8 {
			return h, fmt.Errorf("unsupported grayscale TGA bit depth %d (only 8 supported)", h.bpp)
		}
	default:
		return h, fmt.Errorf("unsupported TGA type %d", h.imageType)
	}
	return h, nil
}

// DecodeTGAPixels decodes a TGA file into a top-to-bottom pixel buffer that keeps
// the file's channel layout: 1 byte per pixel for grayscale, 3 (BGR) or 4 (BGRA)
// for true-color.
func DecodeTGAPixels(data []byte) (Pixels, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return Pixels{}, err
	}

	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return Pixels{}, errTGATruncated
	}
	src := data[offset:]

	bytesPerPixel := h.bpp / 8
	px := Pixels{
		Width:         h.width,
		Height:        h.height,
		BytesPerPixel: bytesPerPixel,
		Data:          make([]byte, h.width*h.height*bytesPerPixel),
	}

	if h.imageType == TGATypeRLE || h.imageType == TGATypeGrayRLE {
		err = unpackTGARLE(px.Data, src, h.width*h.height, bytesPerPixel)
	} else {
		if len(src) < len(px.Data) {
			err = fmt.Errorf("TGA pixel data truncated")
		} else {
			copy(px.Data, src)
		}
	}
	if err != nil {
		return Pixels{}, err
	}

	if !h.topToBottom {
		px.flipRows()
	}
	return px, nil
}

// DecodeTGA decodes a TGA file into an image. Grayscale files yield *image.Gray,
// true-color files *image.RGBA.
func DecodeTGA(data []byte) (image.Image, error) {
	px, err := DecodeTGAPixels(data)
	if err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, px.Width, px.Height)
	if px.BytesPerPixel == 1 {
		img := image.NewGray(rect)
		copy(img.Pix, px.Data)
		return img, nil
	}

	img := image.NewRGBA(rect)
	for y := 0; y < px.Height; y++ {
		for x := 0; x < px.Width; x++ {
			p := px.At(x, y)
			a := uint8(255)
			if px.BytesPerPixel == 4 {
				a = p[3]
			}
			img.SetRGBA(x, y, color.RGBA{R: p[2], G: p[1], B: p[0], A: a})
		}
	}
	return img, nil
}

// unpackTGARLE expands RLE packets from src into dst (pixelCount pixels).
func unpackTGARLE(dst, src []byte, pixelCount, bytesPerPixel int) error {
	pixelIdx := 0
	dataIdx := 0

	for pixelIdx < pixelCount {
		if dataIdx >= len(src) {
			return errTGATruncated
		}
		packet := src[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// RLE packet - repeat single pixel
			if dataIdx+bytesPerPixel > len(src) {
				return errTGATruncated
			}
			p := src[dataIdx : dataIdx+bytesPerPixel]
			dataIdx += bytesPerPixel
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				copy(dst[pixelIdx*bytesPerPixel:], p)
				pixelIdx++
			}
			continue
		}

		// Raw packet - read count pixels
		n := count * bytesPerPixel
		if dataIdx+n > len(src) {
			return errTGATruncated
		}
		for i := 0; i < count && pixelIdx < pixelCount; i++ {
			copy(dst[pixelIdx*bytesPerPixel:], src[dataIdx:dataIdx+bytesPerPixel])
			dataIdx += bytesPerPixel
			pixelIdx++
		}
	}

	return nil
}
