// Package texture decodes image files into the RGBA8 pixel buffers uploaded
// to the GPU.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Load reads and decodes the image file at path.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	img, err := Decode(data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes an encoded image. TGA is selected by the name's extension,
// since it has no signature; other formats are detected from their contents.
func Decode(data []byte, name string) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any image to a row-major RGBA8 buffer whose bounds start
// at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Planks generates a wooden plank texture, used when no texture file is
// configured.
func Planks(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	const boards = 4
	boardH := height / boards
	if boardH == 0 {
		boardH = 1
	}

	for y := 0; y < height; y++ {
		board := y / boardH
		seam := y%boardH == 0
		for x := 0; x < width; x++ {
			// Stagger the butt joints from one board to the next.
			joint := (x+board*width/3)%width == 0
			grain := uint8((x*7 + y*3 + board*29) % 23)

			c := color.RGBA{R: 150 + grain, G: 100 + grain/2, B: 55, A: 255}
			if board%2 == 1 {
				c.R -= 15
				c.G -= 10
			}
			if seam || joint {
				c = color.RGBA{R: 60, G: 38, B: 20, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
