package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, checker()); err != nil {
		t.Fatal(err)
	}

	img, err := Decode(buf.Bytes(), "checker.png")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Fatalf("size = %v, want 4x2", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want red", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel (1,0) = %v, want blue", got)
	}
	if len(img.Pix) != 4*2*4 {
		t.Errorf("len(Pix) = %d, want %d", len(img.Pix), 4*2*4)
	}
}

func TestDecodeBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, checker()); err != nil {
		t.Fatal(err)
	}

	img, err := Decode(buf.Bytes(), "checker.bmp")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := img.RGBAAt(3, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel (3,1) = %v, want red", got)
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image"), "x.png"); err == nil {
		t.Error("expected error for garbage input")
	}
}

// tgaHeader builds an 18-byte TGA header.
func tgaHeader(imageType byte, width, height int, bpp byte, descriptor byte) []byte {
	h := make([]byte, 18)
	h[2] = imageType
	h[12] = byte(width)
	h[13] = byte(width >> 8)
	h[14] = byte(height)
	h[15] = byte(height >> 8)
	h[16] = bpp
	h[17] = descriptor
	return h
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x1, bottom-up, 24-bit BGR: blue then green.
	data := append(tgaHeader(TGATypeUncompressed, 2, 1, 24, 0),
		255, 0, 0,
		0, 255, 0,
	)

	img, err := Decode(data, "tiny.TGA")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want blue", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel (1,0) = %v, want green", got)
	}
}

func TestDecodeTGAOrientation(t *testing.T) {
	// 1x2, 32-bit. First stored row is the bottom unless bit 5 is set.
	rows := []byte{
		0, 0, 255, 255, // red
		255, 0, 0, 128, // blue, half alpha
	}

	bottomUp, err := DecodeTGA(append(tgaHeader(TGATypeUncompressed, 1, 2, 32, 0), rows...))
	if err != nil {
		t.Fatal(err)
	}
	if got := bottomUp.RGBAAt(0, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("bottom-up (0,1) = %v, want red", got)
	}

	topDown, err := DecodeTGA(append(tgaHeader(TGATypeUncompressed, 1, 2, 32, 0x20), rows...))
	if err != nil {
		t.Fatal(err)
	}
	if got := topDown.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("top-down (0,0) = %v, want red", got)
	}
	if got := topDown.RGBAAt(0, 1); got.A != 128 {
		t.Errorf("top-down (0,1) alpha = %d, want 128", got.A)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1 top-down: run of two red pixels, then one raw green pixel.
	data := append(tgaHeader(TGATypeRLE, 3, 1, 24, 0x20),
		0x81, 0, 0, 255,
		0x00, 0, 255, 0,
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA() error = %v", err)
	}
	want := []color.RGBA{
		{R: 255, A: 255},
		{R: 255, A: 255},
		{G: 255, A: 255},
	}
	for x, w := range want {
		if got := img.RGBAAt(x, 0); got != w {
			t.Errorf("pixel (%d,0) = %v, want %v", x, got, w)
		}
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{0, 0, 2}},
		{"color mapped", func() []byte {
			h := tgaHeader(TGATypeUncompressed, 1, 1, 24, 0)
			h[1] = 1
			return h
		}()},
		{"grayscale", tgaHeader(3, 1, 1, 8, 0)},
		{"16 bit", tgaHeader(TGATypeUncompressed, 1, 1, 16, 0)},
		{"truncated pixels", append(tgaHeader(TGATypeUncompressed, 2, 2, 24, 0), 1, 2, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planks.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, Planks(64, 64)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Errorf("size = %v, want 64x64", img.Bounds())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestToRGBAOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 11))
	src.SetRGBA(10, 10, color.RGBA{G: 200, A: 255})

	got := ToRGBA(src)
	if got.Bounds().Min != (image.Point{}) {
		t.Errorf("bounds = %v, want origin-based", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{G: 200, A: 255}) {
		t.Errorf("pixel (0,0) = %v", c)
	}
}

func TestPlanksOpaque(t *testing.T) {
	img := Planks(32, 32)
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("pixel %d alpha = %d, want 255", i/4, img.Pix[i])
		}
	}
}
