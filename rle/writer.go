package rle

import (
	"bufio"
	"errors"
	"image"
	"io"

	"github.com/MLXXXp/Arduboy2/bitmap"
)

var (
	errDimensions = errors.New("rle: invalid image dimensions")
	errShortData  = errors.New("rle: not enough bitmap data")
)

type encoder struct {
	bw *BitWriter

	pix    []byte
	pixels int
}

func (e *encoder) bit(pos int) byte {
	return e.pix[pos>>3] >> (pos & 7) & 1
}

func (e *encoder) encode(width, height int) error {
	if err := e.bw.WriteBits(uint32(width-1), 8); err != nil {
		return err
	}
	if err := e.bw.WriteBits(uint32(height-1), 8); err != nil {
		return err
	}
	if err := e.bw.WriteBit(e.bit(0)); err != nil {
		return err
	}

	for pos := 0; pos < e.pixels; {
		c := e.bit(pos)
		n := 1
		for pos+n < e.pixels && e.bit(pos+n) == c {
			n++
		}
		if err := e.bw.WriteSpanLength(n); err != nil {
			return err
		}
		pos += n
	}

	return e.bw.Flush()
}

// EncodeBitmap writes the packed pixels pix of a width by height image to
// w as a compressed stream. The height must be a multiple of eight and
// both dimensions must fit the 8 bit header fields.
func EncodeBitmap(w io.Writer, pix []byte, width, height int) error {
	if width < 1 || width > MaxWidth || height < 1 || height > MaxHeight || height%pageHeight != 0 {
		return errDimensions
	}
	if len(pix) < width*height/8 {
		return errShortData
	}

	buf := bufio.NewWriter(w)
	e := &encoder{
		bw:     NewBitWriter(buf),
		pix:    pix,
		pixels: width * height,
	}
	if err := e.encode(width, height); err != nil {
		return err
	}

	return buf.Flush()
}

// Encode writes the image m to w as a compressed stream. The image is
// reduced to one bit per pixel first: a pixel is lit when it is mostly
// opaque and brighter than mid gray.
func Encode(w io.Writer, m image.Image) error {
	b, err := bitmap.FromImage(m)
	if err != nil {
		return err
	}

	return EncodeBitmap(w, b.Frame(0), b.Width(), b.Height())
}
