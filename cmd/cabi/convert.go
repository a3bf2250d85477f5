package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/draw"

	"github.com/MLXXXp/Arduboy2"
	"github.com/MLXXXp/Arduboy2/bitmap"
	"github.com/MLXXXp/Arduboy2/rle"
)

const defaultThreshold = 128

// asset is one converted image, ready for any of the emitters. The
// image and mask fields hold the compressed streams for the encode
// path, or the raw resource bytes (mask nil) for the pack path.
type asset struct {
	name   string
	source string
	width  int
	height int
	pixels int
	image  []byte
	mask   []byte
}

type converter struct {
	threshold int
	dither    bool
	quantize  bool
	fit       bool
	name      string
	logger    *log.Logger
}

func newConverter(c *cli.Context) *converter {
	return &converter{
		threshold: c.Int("threshold"),
		dither:    c.Bool("dither"),
		quantize:  c.Bool("quantize"),
		fit:       c.Bool("fit"),
		name:      c.String("name"),
		logger:    newLogger(c),
	}
}

func loadImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return m, nil
}

// symbolName strips the directory and extension and squashes anything
// that cannot appear in a C or Go identifier.
func symbolName(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	var b strings.Builder
	for i, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// prepare reduces m to black and white. Exactly one of the reduction
// strategies applies: quantize wins over dither, dither over the fixed
// threshold. Transparency survives the reduction so the mask channel
// still sees the original coverage.
func (cv *converter) prepare(m image.Image) image.Image {
	if cv.fit {
		m = fitImage(m)
	}

	switch {
	case cv.quantize:
		return restoreAlpha(bitmap.Quantize(m), m)
	case cv.dither:
		d := dither.NewDitherer([]color.Color{color.Black, color.White})
		d.Matrix = dither.FloydSteinberg
		return restoreAlpha(d.Dither(m), m)
	default:
		return thresholdImage(m, cv.threshold)
	}
}

// fitImage scales m down to the display, preserving aspect and
// rounding the height down to a whole number of pages. Images that
// already fit pass through untouched.
func fitImage(m image.Image) image.Image {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= arduboy2.ScreenWidth && h <= arduboy2.ScreenHeight && h%8 == 0 {
		return m
	}

	sw, sh := w, h
	if sw > arduboy2.ScreenWidth {
		sh = sh * arduboy2.ScreenWidth / sw
		sw = arduboy2.ScreenWidth
	}
	if sh > arduboy2.ScreenHeight {
		sw = sw * arduboy2.ScreenHeight / sh
		sh = arduboy2.ScreenHeight
	}
	if sh -= sh % 8; sh == 0 {
		sh = 8
	}
	if sw == 0 {
		sw = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, sw, sh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

// thresholdImage snaps every pixel to black or white by gray value.
// Alpha is copied through unchanged.
func thresholdImage(m image.Image, cutoff int) image.Image {
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			r, g, bl, a := c.RGBA()
			gray := (299*r + 587*g + 114*bl) / 1000 >> 8
			v := uint8(0)
			if int(gray) >= cutoff {
				v = 0xff
			}
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBA{v, v, v, uint8(a >> 8)})
		}
	}
	return dst
}

// restoreAlpha copies the alpha channel of orig onto the dithered
// image, which most ditherers flatten to opaque.
func restoreAlpha(m, orig image.Image) image.Image {
	b := m.Bounds()
	ob := orig.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := m.At(b.Min.X+x, b.Min.Y+y).RGBA()
			_, _, _, a := orig.At(ob.Min.X+x, ob.Min.Y+y).RGBA()
			dst.SetNRGBA(x, y, color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), uint8(a >> 8)})
		}
	}
	return dst
}

// encodeFile compresses one image into its color and mask streams.
func (cv *converter) encodeFile(file string) (asset, error) {
	m, err := loadImage(file)
	if err != nil {
		return asset{}, err
	}

	m = cv.prepare(m)
	b := m.Bounds()

	img, err := bitmap.FromImage(m)
	if err != nil {
		return asset{}, fmt.Errorf("%s: %w", file, err)
	}
	msk, err := bitmap.MaskFromImage(m)
	if err != nil {
		return asset{}, fmt.Errorf("%s: %w", file, err)
	}

	var cbuf, mbuf bytes.Buffer
	if err := rle.EncodeBitmap(&cbuf, img.Frame(0), img.Width(), img.Height()); err != nil {
		return asset{}, fmt.Errorf("%s: %w", file, err)
	}
	if err := rle.EncodeBitmap(&mbuf, msk.Frame(0), msk.Width(), msk.Height()); err != nil {
		return asset{}, fmt.Errorf("%s: %w", file, err)
	}

	name := cv.name
	if name == "" {
		name = symbolName(file)
	}

	a := asset{
		name:   name,
		source: file,
		width:  b.Dx(),
		height: b.Dy(),
		pixels: b.Dx() * b.Dy(),
		image:  cbuf.Bytes(),
		mask:   mbuf.Bytes(),
	}

	cv.logger.Printf("%s: %dx%d, color %d bytes, mask %d bytes", file, a.width, a.height, len(a.image), len(a.mask))

	return a, nil
}

// packFile converts one image into an uncompressed sprite resource,
// optionally sliced into frames and interleaved with its mask.
func (cv *converter) packFile(file string, frameHeight int, plusmask bool) (asset, error) {
	m, err := loadImage(file)
	if err != nil {
		return asset{}, err
	}

	m = cv.prepare(m)
	b := m.Bounds()

	var img, msk *bitmap.Bitmap
	if frameHeight > 0 {
		img, err = bitmap.FromSheet(m, frameHeight)
		if err == nil && plusmask {
			msk, err = bitmap.MaskFromSheet(m, frameHeight)
		}
	} else {
		img, err = bitmap.FromImage(m)
		if err == nil && plusmask {
			msk, err = bitmap.MaskFromImage(m)
		}
	}
	if err != nil {
		return asset{}, fmt.Errorf("%s: %w", file, err)
	}

	if plusmask {
		if img, err = bitmap.Interleave(img, msk); err != nil {
			return asset{}, fmt.Errorf("%s: %w", file, err)
		}
	}

	name := cv.name
	if name == "" {
		name = symbolName(file)
	}

	a := asset{
		name:   name,
		source: file,
		width:  img.Width(),
		height: img.Height(),
		pixels: b.Dx() * b.Dy(),
		image:  img.Bytes(),
	}

	cv.logger.Printf("%s: %dx%d, %d bytes", file, a.width, a.height, len(a.image))

	return a, nil
}

// decodeFile expands a compressed stream back into a PNG, mostly for
// checking what an encode produced.
func decodeFile(file, output string, logger *log.Logger) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := rle.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if output == "" {
		output = strings.TrimSuffix(file, filepath.Ext(file)) + ".png"
	}

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, m); err != nil {
		return err
	}

	b := m.Bounds()
	logger.Printf("%s: %dx%d written to %s", file, b.Dx(), b.Dy(), output)

	return nil
}
