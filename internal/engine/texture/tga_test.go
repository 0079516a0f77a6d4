package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func tgaHeaderBytes(imageType byte, w, h, bpp int, desc byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = byte(bpp)
	hdr[17] = desc
	return hdr
}

func TestDecodeTGAGrayBottomUp(t *testing.T) {
	// Rows are stored bottom row first.
	data := append(tgaHeaderBytes(TGATypeGray, 2, 3, 8, 0),
		50, 51, // bottom
		30, 31,
		10, 11, // top
	)
	px, err := DecodeTGAPixels(data)
	if err != nil {
		t.Fatalf("DecodeTGAPixels: %v", err)
	}
	if px.Width != 2 || px.Height != 3 || px.BytesPerPixel != 1 {
		t.Fatalf("got %dx%d bpp %d", px.Width, px.Height, px.BytesPerPixel)
	}
	want := []byte{10, 11, 30, 31, 50, 51}
	if !bytes.Equal(px.Data, want) {
		t.Errorf("data = %v, want %v", px.Data, want)
	}

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("DecodeTGA returned %T, want *image.Gray", img)
	}
	if gray.GrayAt(1, 2).Y != 51 {
		t.Errorf("pixel (1,2) = %d, want 51", gray.GrayAt(1, 2).Y)
	}
}

func TestDecodeTGATopDownWithID(t *testing.T) {
	hdr := tgaHeaderBytes(TGATypeUncompressed, 2, 1, 24, tgaDescTopToBottom)
	hdr[0] = 3
	data := append(hdr, 'i', 'd', '!')
	data = append(data, 1, 2, 3, 4, 5, 6)

	px, err := DecodeTGAPixels(data)
	if err != nil {
		t.Fatalf("DecodeTGAPixels: %v", err)
	}
	if px.BytesPerPixel != 3 || !bytes.Equal(px.Data, []byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("got bpp %d data %v", px.BytesPerPixel, px.Data)
	}

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	if got := img.(*image.RGBA).RGBAAt(0, 0); got != (color.RGBA{R: 3, G: 2, B: 1, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want BGR swapped", got)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	data := append(tgaHeaderBytes(TGATypeRLE, 4, 1, 24, tgaDescTopToBottom),
		0x82, 9, 8, 7, // run of 3
		0x00, 1, 2, 3, // one raw pixel
	)
	px, err := DecodeTGAPixels(data)
	if err != nil {
		t.Fatalf("DecodeTGAPixels: %v", err)
	}
	want := []byte{9, 8, 7, 9, 8, 7, 9, 8, 7, 1, 2, 3}
	if !bytes.Equal(px.Data, want) {
		t.Errorf("data = %v, want %v", px.Data, want)
	}
}

func TestDecodeTGAGrayRLE(t *testing.T) {
	data := append(tgaHeaderBytes(TGATypeGrayRLE, 2, 2, 8, tgaDescTopToBottom),
		0x81, 200,
		0x01, 5, 6,
	)
	px, err := DecodeTGAPixels(data)
	if err != nil {
		t.Fatalf("DecodeTGAPixels: %v", err)
	}
	if !bytes.Equal(px.Data, []byte{200, 200, 5, 6}) {
		t.Errorf("data = %v", px.Data)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	colorMapped := tgaHeaderBytes(TGATypeUncompressed, 1, 1, 24, 0)
	colorMapped[1] = 1

	tests := []struct {
		name string
		data []byte
	}{
		{"short header", make([]byte, 10)},
		{"color mapped", colorMapped},
		{"unknown type", tgaHeaderBytes(1, 1, 1, 8, 0)},
		{"16-bit true color", tgaHeaderBytes(TGATypeUncompressed, 1, 1, 16, 0)},
		{"16-bit gray", tgaHeaderBytes(TGATypeGray, 1, 1, 16, 0)},
		{"truncated pixels", append(tgaHeaderBytes(TGATypeGray, 2, 2, 8, 0), 1, 2, 3)},
		{"truncated id", func() []byte { h := tgaHeaderBytes(TGATypeGray, 1, 1, 8, 0); h[0] = 40; return h }()},
		{"truncated run", append(tgaHeaderBytes(TGATypeRLE, 2, 1, 24, 0), 0x81, 1)},
		{"truncated raw packet", append(tgaHeaderBytes(TGATypeGrayRLE, 4, 1, 8, 0), 0x03, 1, 2)},
		{"missing packets", append(tgaHeaderBytes(TGATypeGrayRLE, 4, 1, 8, 0), 0x81, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGAPixels(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := DecodeTGAPixels(append(tgaHeaderBytes(TGATypeRLE, 2, 1, 24, 0), 0x81, 1)); !errors.Is(err, errTGATruncated) {
		t.Errorf("truncated run: err = %v, want %v", err, errTGATruncated)
	}
}

func TestFromImageGraySubImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 4))

	px := FromImage(sub)
	if px.Width != 2 || px.Height != 3 || px.BytesPerPixel != 1 {
		t.Fatalf("got %dx%d bpp %d", px.Width, px.Height, px.BytesPerPixel)
	}
	want := []byte{5, 6, 9, 10, 13, 14}
	if !bytes.Equal(px.Data, want) {
		t.Errorf("data = %v, want %v", px.Data, want)
	}
	if got := px.At(1, 2); !bytes.Equal(got, []byte{14}) {
		t.Errorf("At(1,2) = %v", got)
	}
}

func TestFromImageModels(t *testing.T) {
	rect := image.Rect(0, 0, 3, 2)
	tests := []struct {
		name string
		img  image.Image
		bpp  int
	}{
		{"gray", image.NewGray(rect), 1},
		{"paletted", image.NewPaletted(rect, color.Palette{color.Black, color.White}), 1},
		{"gray16", image.NewGray16(rect), 2},
		{"rgba", image.NewRGBA(rect), 4},
		{"nrgba", image.NewNRGBA(rect), 4},
		{"ycbcr", image.NewYCbCr(rect, image.YCbCrSubsampleRatio444), 4},
		{"cmyk", image.NewCMYK(rect), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px := FromImage(tt.img)
			if px.BytesPerPixel != tt.bpp {
				t.Errorf("bpp = %d, want %d", px.BytesPerPixel, tt.bpp)
			}
			if px.Width != 3 || px.Height != 2 || len(px.Data) != 6*tt.bpp {
				t.Errorf("got %dx%d with %d bytes", px.Width, px.Height, len(px.Data))
			}
		})
	}
}

func TestFromImageConvertsToNRGBA(t *testing.T) {
	img := image.NewYCbCr(image.Rect(0, 0, 1, 1), image.YCbCrSubsampleRatio444)
	img.Y[0], img.Cb[0], img.Cr[0] = 128, 128, 128
	px := FromImage(img)
	// Neutral chroma is gray: R == G == B, opaque.
	p := px.At(0, 0)
	if p[0] != p[1] || p[1] != p[2] || p[3] != 255 {
		t.Errorf("pixel = %v, want opaque gray", p)
	}
}

func TestDecodeByExtension(t *testing.T) {
	tga := append(tgaHeaderBytes(TGATypeGray, 2, 2, 8, tgaDescTopToBottom), 1, 2, 3, 4)

	var buf bytes.Buffer
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	copy(gray.Pix, []byte{1, 2, 3, 4})
	if err := png.Encode(&buf, gray); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"map.tga", tga},
		{"MAP.TGA", tga},
		{"map.png", buf.Bytes()},
		// Content sniffing ignores a wrong extension for registered formats.
		{"map.bmp", buf.Bytes()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, err := Decode(tt.name, tt.data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if px.BytesPerPixel != 1 || !bytes.Equal(px.Data, []byte{1, 2, 3, 4}) {
				t.Errorf("got bpp %d data %v", px.BytesPerPixel, px.Data)
			}
		})
	}

	if _, err := Decode("map.png", tga); err == nil {
		t.Error("TGA bytes decoded as PNG")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(t.TempDir() + "/none.png"); err == nil {
		t.Error("expected error for missing file")
	}
}
