package bitmap

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

// lit reports whether a pixel belongs to the image channel: mostly opaque
// and brighter than mid gray.
func lit(c color.Color) bool {
	r, g, b, a := c.RGBA()
	if a <= 0x7fff {
		return false
	}
	// Rec. 601 luma over the 16 bit channels.
	y := (299*r + 587*g + 114*b) / 1000
	return y > 0x7fff
}

// opaque reports whether a pixel belongs to the mask channel.
func opaque(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a > 0x7fff
}

func checkBounds(w, h int) error {
	if w < 1 || w > maxDim || h < 1 || h > maxDim {
		return errDimensions
	}
	if h%PageHeight != 0 {
		return errHeight
	}
	return nil
}

// packFrames packs every pixel satisfying f. Stacking frames vertically
// in the source lands them consecutively in the resource because pages
// run top to bottom.
func packFrames(m image.Image, frameHeight int, f func(color.Color) bool) *Bitmap {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	data := make([]byte, headerSize+w*h/PageHeight)
	data[0], data[1] = byte(w), byte(frameHeight)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if f(m.At(b.Min.X+x, b.Min.Y+y)) {
				data[headerSize+(y/PageHeight)*w+x] |= 1 << (y % PageHeight)
			}
		}
	}

	return &Bitmap{data: data}
}

// FromImage converts m into a single frame resource. A pixel is lit when
// it is mostly opaque and brighter than mid gray.
func FromImage(m image.Image) (*Bitmap, error) {
	b := m.Bounds()
	if err := checkBounds(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	return packFrames(m, b.Dy(), lit), nil
}

// MaskFromImage converts the alpha channel of m into a single frame mask
// resource with every mostly opaque pixel lit.
func MaskFromImage(m image.Image) (*Bitmap, error) {
	b := m.Bounds()
	if err := checkBounds(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	return packFrames(m, b.Dy(), opaque), nil
}

// FromSheet slices a vertical film strip into frames of the given height
// and packs them into a multi frame resource.
func FromSheet(m image.Image, frameHeight int) (*Bitmap, error) {
	b := m.Bounds()
	if frameHeight < 1 || b.Dy()%frameHeight != 0 {
		return nil, errSheet
	}
	if err := checkBounds(b.Dx(), frameHeight); err != nil {
		return nil, err
	}
	return packFrames(m, frameHeight, lit), nil
}

// MaskFromSheet is FromSheet for the alpha channel, lighting every mostly
// opaque pixel.
func MaskFromSheet(m image.Image, frameHeight int) (*Bitmap, error) {
	b := m.Bounds()
	if frameHeight < 1 || b.Dy()%frameHeight != 0 {
		return nil, errSheet
	}
	if err := checkBounds(b.Dx(), frameHeight); err != nil {
		return nil, err
	}
	return packFrames(m, frameHeight, opaque), nil
}

// ToImage renders frame i of a plain layout resource as a two color
// image. It panics when i is out of range.
func (b *Bitmap) ToImage(i int) *image.Paletted {
	w, h := b.Width(), b.Height()
	frame := b.Frame(i)

	m := image.NewPaletted(image.Rect(0, 0, w, h), Palette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if frame[(y/PageHeight)*w+x]>>(y%PageHeight)&1 != 0 {
				m.SetColorIndex(x, y, 1)
			}
		}
	}

	return m
}

func luma(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (299*r + 587*g + 114*b) / 1000
}

// Quantize reduces m to black and white by splitting it on its two
// dominant colors rather than a fixed gray cutoff: every pixel nearer the
// brighter of the two is lit. Transparent pixels stay dark. A flat source
// quantizes to a single color and falls back to the fixed cutoff.
func Quantize(m image.Image) image.Image {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, 2), m)

	b := m.Bounds()
	out := image.NewPaletted(b, Palette)

	if len(p) < 2 {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if lit(m.At(x, y)) {
					out.SetColorIndex(x, y, 1)
				}
			}
		}
		return out
	}

	bright := 0
	if luma(p[1]) > luma(p[0]) {
		bright = 1
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			if opaque(c) && p.Index(c) == bright {
				out.SetColorIndex(x, y, 1)
			}
		}
	}

	return out
}
