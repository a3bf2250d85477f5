package rle

import (
	"bufio"
	"errors"
	"image"
	"io"

	"github.com/MLXXXp/Arduboy2/bitmap"
)

var (
	errNotEnough = errors.New("rle: not enough stream data")
	errTooLong   = errors.New("rle: span overruns image")
	errHeight    = errors.New("rle: height is not a multiple of eight")
)

type decoder struct {
	br *BitReader

	width  int
	height int
	lit    bool

	pix []byte
}

func notEnough(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errNotEnough
	}
	return err
}

func (d *decoder) readHeader() error {
	w, err := d.br.ReadBits(8)
	if err != nil {
		return err
	}
	h, err := d.br.ReadBits(8)
	if err != nil {
		return err
	}
	c, err := d.br.ReadBit()
	if err != nil {
		return err
	}

	d.width = int(w) + 1
	d.height = int(h) + 1
	d.lit = c != 0

	return nil
}

func (d *decoder) readSpans() error {
	total := d.width * d.height
	lit := d.lit

	for pos := 0; pos < total; {
		n, err := d.br.ReadSpanLength()
		if err != nil {
			return err
		}
		if pos+n > total {
			return errTooLong
		}
		if lit {
			for i := 0; i < n; i++ {
				d.pix[pos>>3] |= 1 << (pos & 7)
				pos++
			}
		} else {
			pos += n
		}
		lit = !lit
	}

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	d.br = NewBitReader(br)

	if err := d.readHeader(); err != nil {
		return notEnough(err)
	}

	if configOnly {
		return nil
	}

	if d.height%pageHeight != 0 {
		return errHeight
	}

	d.pix = make([]byte, d.width*d.height/8)
	if err := d.readSpans(); err != nil {
		return notEnough(err)
	}

	return nil
}

// DecodeBitmap reads a compressed stream from r and returns the packed
// pixels along with the image width and height. Reading stops with the
// byte holding the final span, so when r is an io.ByteReader anything
// past the stream is left unread.
func DecodeBitmap(r io.Reader) ([]byte, int, int, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, 0, 0, err
	}

	return d.pix, d.width, d.height, nil
}

// Decode reads a compressed stream from r and returns it as a two color
// image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}

	m := image.NewPaletted(image.Rect(0, 0, d.width, d.height), bitmap.Palette)
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			if d.pix[(y/pageHeight)*d.width+x]>>(y%pageHeight)&1 != 0 {
				m.SetColorIndex(x, y, 1)
			}
		}
	}

	return m, nil
}

// DecodeConfig returns the dimensions and color model of a compressed
// stream without decoding its spans.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}

	return image.Config{
		ColorModel: bitmap.Palette,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
