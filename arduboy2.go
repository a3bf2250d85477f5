/*
Package arduboy2 implements the Arduboy graphics core: a packed one bit
per pixel framebuffer with page addressed storage, a clipped multi mode
sprite blitter, and a run length decoder that streams compressed bitmaps
straight into the buffer.

The buffer matches the display's memory layout: eight pixel tall pages,
one byte per column per page, least significant bit at the top, so a
pixel at (x, y) lives in bit y%8 of byte (y/8)*width+x. Drawing never
allocates and never writes outside the buffer; coordinates off the edges
are clipped or ignored.
*/
package arduboy2

import "errors"

// Display dimensions of the stock hardware.
const (
	ScreenWidth  = 128
	ScreenHeight = 64
)

const pageHeight = 8

var errGeometry = errors.New("arduboy2: invalid buffer geometry")

// A Color selects the effect of a drawing operation on its pixels.
// Invert toggles pixels, so operations that visit a pixel more than once
// toggle it each visit.
type Color uint8

const (
	Black Color = iota
	White
	Invert
)

// A FrameBuffer is an owned, fixed size pixel buffer. The zero value is
// not usable; construct one with New.
type FrameBuffer struct {
	width  int
	height int
	pages  int
	buf    []byte
}

// New returns a zeroed buffer of the given dimensions. The height must
// be a positive multiple of eight.
func New(width, height int) (*FrameBuffer, error) {
	if width < 1 || height < 1 || height%pageHeight != 0 {
		return nil, errGeometry
	}
	return &FrameBuffer{
		width:  width,
		height: height,
		pages:  height / pageHeight,
		buf:    make([]byte, width*height/pageHeight),
	}, nil
}

// Width returns the buffer width in pixels.
func (fb *FrameBuffer) Width() int { return fb.width }

// Height returns the buffer height in pixels.
func (fb *FrameBuffer) Height() int { return fb.height }

// Buffer returns the live backing storage, one byte per column per page
// row. Display flush code reads it directly.
func (fb *FrameBuffer) Buffer() []byte { return fb.buf }

// SetPixel sets, clears or toggles the pixel at (x, y). Coordinates off
// the buffer are ignored.
func (fb *FrameBuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}

	bit := byte(1) << (y % pageHeight)
	ofs := (y/pageHeight)*fb.width + x
	switch c {
	case White:
		fb.buf[ofs] |= bit
	case Black:
		fb.buf[ofs] &^= bit
	default:
		fb.buf[ofs] ^= bit
	}
}

// Pixel returns White or Black for the pixel at (x, y). Coordinates off
// the buffer read Black.
func (fb *FrameBuffer) Pixel(x, y int) Color {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return Black
	}
	if fb.buf[(y/pageHeight)*fb.width+x]>>(y%pageHeight)&1 != 0 {
		return White
	}
	return Black
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	for i := range fb.buf {
		fb.buf[i] = 0
	}
}

// Fill paints every pixel at once. Invert flips the whole buffer.
func (fb *FrameBuffer) Fill(c Color) {
	switch c {
	case White:
		for i := range fb.buf {
			fb.buf[i] = 0xff
		}
	case Black:
		fb.Clear()
	default:
		for i := range fb.buf {
			fb.buf[i] = ^fb.buf[i]
		}
	}
}
