package loader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 2, color.NRGBA{B: 255, A: 255})
	return img
}

func TestDecodeRGBAFromPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))

	rgba, err := DecodeRGBA(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 3), rgba.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba.RGBAAt(1, 2))
}

func TestDecodeRGBAFromBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage()))

	rgba, err := DecodeRGBA(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, rgba.Bounds().Dx())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba.RGBAAt(0, 0))
}

func TestDecodeRGBARejectsGarbage(t *testing.T) {
	_, err := DecodeRGBA(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestDecodeRGBAFileMissing(t *testing.T) {
	_, err := DecodeRGBAFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFlipVertical(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 3))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	src.SetRGBA(1, 2, color.RGBA{G: 255, A: 255})

	out := FlipVertical(src)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(0, 2))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(0, 0))
}
