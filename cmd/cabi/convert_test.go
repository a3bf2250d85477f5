package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MLXXXp/Arduboy2/rle"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func writePNG(t *testing.T, path string, m image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

// halfImage is 8x8, left half opaque white, right half transparent.
func halfImage() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			m.SetNRGBA(x, y, color.NRGBA{0xff, 0xff, 0xff, 0xff})
		}
	}
	return m
}

func TestSymbolName(t *testing.T) {
	assert.Equal(t, "Foo_Bar_9", symbolName("sprites/Foo-Bar 9.png"))
	assert.Equal(t, "_9lives", symbolName("9lives.png"))
	assert.Equal(t, "x_y_z", symbolName("x.y.z.png"))
}

func TestThresholdImage(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	m.SetNRGBA(0, 0, color.NRGBA{200, 200, 200, 255})
	m.SetNRGBA(1, 0, color.NRGBA{50, 50, 50, 255})
	m.SetNRGBA(2, 0, color.NRGBA{255, 255, 255, 0})

	dst := thresholdImage(m, 128)
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, dst.At(0, 0))
	assert.Equal(t, color.NRGBA{0x00, 0x00, 0x00, 0xff}, dst.At(1, 0))
	_, _, _, a := dst.At(2, 0).RGBA()
	assert.Zero(t, a)
}

func TestFitImage(t *testing.T) {
	tests := []struct {
		w, h   int
		sw, sh int
	}{
		{256, 128, 128, 64},
		{128, 256, 32, 64},
		{100, 30, 100, 24},
		{64, 32, 64, 32},
		{300, 8, 128, 8},
	}
	for _, tt := range tests {
		m := fitImage(image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h)))
		b := m.Bounds()
		assert.Equal(t, tt.sw, b.Dx(), "%dx%d width", tt.w, tt.h)
		assert.Equal(t, tt.sh, b.Dy(), "%dx%d height", tt.w, tt.h)
	}
}

func TestRestoreAlpha(t *testing.T) {
	flat := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	flat.SetNRGBA(0, 0, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	flat.SetNRGBA(1, 0, color.NRGBA{0xff, 0xff, 0xff, 0xff})

	orig := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	orig.SetNRGBA(0, 0, color.NRGBA{0xff, 0xff, 0xff, 0x00})
	orig.SetNRGBA(1, 0, color.NRGBA{0xff, 0xff, 0xff, 0xff})

	dst := restoreAlpha(flat, orig)
	_, _, _, a0 := dst.At(0, 0).RGBA()
	_, _, _, a1 := dst.At(1, 0).RGBA()
	assert.Zero(t, a0)
	assert.Equal(t, uint32(0xffff), a1)
}

func TestPrepareQuantizeKeepsAlpha(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 4, 8))
	for y := 0; y < 8; y++ {
		m.SetNRGBA(0, y, color.NRGBA{0x00, 0x00, 0x40, 0xff})
		m.SetNRGBA(1, y, color.NRGBA{0xff, 0xff, 0xc0, 0xff})
	}

	cv := &converter{quantize: true, logger: discardLogger()}
	out := cv.prepare(m)

	_, _, _, a := out.At(3, 0).RGBA()
	assert.Zero(t, a)
	r, _, _, _ := out.At(1, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestEncodeFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "half.png")
	writePNG(t, file, halfImage())

	cv := &converter{threshold: defaultThreshold, logger: discardLogger()}
	a, err := cv.encodeFile(file)
	require.NoError(t, err)

	assert.Equal(t, "half", a.name)
	assert.Equal(t, file, a.source)
	assert.Equal(t, 8, a.width)
	assert.Equal(t, 8, a.height)
	assert.Equal(t, 64, a.pixels)

	pix, w, h, err := rle.DecodeBitmap(bytes.NewReader(a.image))
	require.NoError(t, err)
	require.Equal(t, 8, w)
	require.Equal(t, 8, h)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00}, pix)

	// Mask covers the same half because only the left is opaque.
	pix, _, _, err = rle.DecodeBitmap(bytes.NewReader(a.mask))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00}, pix)
}

func TestEncodeFileRejectsOddHeight(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "odd.png")
	writePNG(t, file, image.NewNRGBA(image.Rect(0, 0, 8, 10)))

	cv := &converter{threshold: defaultThreshold, logger: discardLogger()}
	_, err := cv.encodeFile(file)
	assert.Error(t, err)
}

func TestPackFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "half.png")
	writePNG(t, file, halfImage())

	cv := &converter{threshold: defaultThreshold, logger: discardLogger()}
	a, err := cv.packFile(file, 0, false)
	require.NoError(t, err)

	assert.Nil(t, a.mask)
	assert.Equal(t, []byte{8, 8, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00}, a.image)
}

func TestPackFilePlusMask(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "half.png")
	writePNG(t, file, halfImage())

	cv := &converter{threshold: defaultThreshold, logger: discardLogger()}
	a, err := cv.packFile(file, 0, true)
	require.NoError(t, err)

	assert.Equal(t, []byte{
		8, 8,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}, a.image)
}

func TestPackFileSheet(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "strip.png")

	m := image.NewNRGBA(image.Rect(0, 0, 2, 16))
	for y := 0; y < 8; y++ {
		for x := 0; x < 2; x++ {
			m.SetNRGBA(x, y, color.NRGBA{0xff, 0xff, 0xff, 0xff})
		}
	}
	writePNG(t, file, m)

	cv := &converter{threshold: defaultThreshold, logger: discardLogger()}
	a, err := cv.packFile(file, 8, false)
	require.NoError(t, err)

	assert.Equal(t, 8, a.height)
	assert.Equal(t, 32, a.pixels)
	assert.Equal(t, []byte{2, 8, 0xff, 0xff, 0x00, 0x00}, a.image)
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "half.bin")

	data, err := os.Create(file)
	require.NoError(t, err)
	require.NoError(t, rle.EncodeBitmap(data, []byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00}, 8, 8))
	require.NoError(t, data.Close())

	require.NoError(t, decodeFile(file, "", discardLogger()))

	f, err := os.Open(filepath.Join(dir, "half.png"))
	require.NoError(t, err)
	defer f.Close()

	m, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 8), m.Bounds())

	r, _, _, _ := m.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	r, _, _, _ = m.At(7, 7).RGBA()
	assert.Zero(t, r)
}
