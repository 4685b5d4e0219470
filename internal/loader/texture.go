package loader

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// DecodeRGBA decodes a PNG, JPEG or BMP image into tightly packed RGBA
func DecodeRGBA(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

// DecodeRGBAFile opens and decodes an image file
func DecodeRGBAFile(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	rgba, err := DecodeRGBA(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rgba, nil
}

// FlipVertical mirrors an image top to bottom, matching GL's bottom-left texture origin
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		dstY := b.Dy() - 1 - y
		copy(out.Pix[dstY*out.Stride:dstY*out.Stride+rowLen], src)
	}
	return out
}
