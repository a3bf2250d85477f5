package arduboy2

import (
	"bytes"

	"github.com/MLXXXp/Arduboy2/rle"
)

// DrawCompressed decodes a compressed bitmap stream straight into the
// buffer at (x, y), without unpacking it anywhere first. Lit spans are
// set when c is not Black and cleared when it is; dark spans never touch
// the destination. Truncated or malformed data just stops drawing, so a
// bad stream can paint garbage but never fault.
func (fb *FrameBuffer) DrawCompressed(x, y int, data []byte, c Color) {
	br := rle.NewBitReader(bytes.NewReader(data))

	wf, err := br.ReadBits(8)
	if err != nil {
		return
	}
	hf, err := br.ReadBits(8)
	if err != nil {
		return
	}
	first, err := br.ReadBit()
	if err != nil {
		return
	}

	w := int(wf) + 1
	h := int(hf) + 1

	if x+w <= 0 || x > fb.width-1 || y+h <= 0 || y > fb.height-1 {
		return
	}

	// Same alignment as a blit, derived here because the decoder walks
	// the image in stream order and cannot skip clipped page rows.
	yOffset := y & 7
	startPage := y / 8
	if y < 0 && yOffset > 0 {
		startPage--
	}
	rows := (h + pageHeight - 1) / pageHeight

	on := c != Black
	lit := first != 0

	var (
		acc      byte
		bit      byte = 1
		col, row int
	)

	for row < rows {
		n, err := br.ReadSpanLength()
		if err != nil {
			return
		}
		for i := 0; i < n; i++ {
			if lit {
				acc |= bit
			}
			bit <<= 1
			if bit == 0 {
				fb.writeColumn(x+col, startPage+row, acc, yOffset, on)
				acc = 0
				bit = 1
				col++
				if col >= w {
					col = 0
					row++
				}
			}
		}
		lit = !lit
	}
}

// writeColumn merges one completed source byte into the buffer, split
// across the page it starts in and the one below when the destination is
// not page aligned. Page -1 still spills its high half into page 0.
func (fb *FrameBuffer) writeColumn(x, page int, acc byte, yOffset int, on bool) {
	if page > fb.pages-1 || page <= -2 || x > fb.width-1 || x < 0 {
		return
	}

	ofs := page*fb.width + x
	if page >= 0 {
		v := acc << yOffset
		if on {
			fb.buf[ofs] |= v
		} else {
			fb.buf[ofs] &^= v
		}
	}
	if yOffset != 0 && page < fb.pages-1 {
		v := acc >> (8 - yOffset)
		if on {
			fb.buf[ofs+fb.width] |= v
		} else {
			fb.buf[ofs+fb.width] &^= v
		}
	}
}
