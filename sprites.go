package arduboy2

import "github.com/MLXXXp/Arduboy2/bitmap"

// A DrawMode selects how a sprite's pixels combine with the buffer.
type DrawMode uint8

const (
	// ModeAuto picks ModeMasked when an external mask is supplied and
	// ModeOverwrite otherwise.
	ModeAuto DrawMode = iota

	// ModeMasked replaces only the destination bits lit in an external
	// mask resource.
	ModeMasked

	// ModeOverwrite replaces the destination outright: lit pixels set,
	// dark pixels cleared.
	ModeOverwrite

	// ModePlusMask is ModeMasked with image and mask interleaved in a
	// single resource, every image byte followed by its mask byte.
	ModePlusMask

	// ModeSelfMasked sets the lit pixels and leaves the rest untouched.
	ModeSelfMasked

	// ModeErase clears the lit pixels and leaves the rest untouched.
	ModeErase
)

// blitGeometry is the clipped destination of a w by h blit at (x, y):
// which source columns and page rows survive and how the source pages
// align against the destination pages.
type blitGeometry struct {
	yOffset int // sub page shift, 0..7
	page    int // first destination page row touched, may be -1
	colSkip int // source columns clipped on the left
	width   int // visible columns
	rowSkip int // whole source page rows clipped on top
	rows    int // page row iterations
	ofs     int // buffer index of the first byte written
}

// clip rejects blits entirely off the buffer and resolves the geometry
// of the rest. A blit starting inside the page above the top edge keeps
// page -1 so its spill into page 0 still lands.
func (fb *FrameBuffer) clip(x, y, w, h int) (g blitGeometry, ok bool) {
	if x+w <= 0 || x > fb.width-1 || y+h <= 0 || y > fb.height-1 {
		return g, false
	}

	g.yOffset = y & 7
	g.page = y / 8
	if y < 0 && g.yOffset > 0 {
		g.page--
	}

	if x < 0 {
		g.colSkip = -x
	}
	if x+w > fb.width-1 {
		g.width = fb.width - x - g.colSkip
	} else {
		g.width = w - g.colSkip
	}

	if g.page < -1 {
		g.rowSkip = -g.page - 1
	}
	g.rows = (h + pageHeight - 1) / pageHeight
	if g.page+g.rows > fb.pages {
		g.rows = fb.pages - g.page
	}
	g.rows -= g.rowSkip
	g.page += g.rowSkip

	g.ofs = g.page*fb.width + x + g.colSkip

	return g, true
}

// blit is the single compositing loop behind every sprite mode. Each
// source byte is widened to 16 bits and shifted by the sub page offset;
// the low half lands in the current page, the high half in the next.
// keep holds the destination bits that survive.
func (fb *FrameBuffer) blit(x, y int, img, mask []byte, w, h int, mode DrawMode) {
	g, ok := fb.clip(x, y, w, h)
	if !ok {
		return
	}

	step := 1
	if mode == ModePlusMask {
		step = 2
	}

	bofs := (g.rowSkip*w + g.colSkip) * step
	mofs := g.rowSkip*w + g.colSkip
	ofs := g.ofs
	page := g.page

	for row := 0; row < g.rows; row++ {
		for i := 0; i < g.width; i++ {
			bits := uint16(img[bofs]) << g.yOffset
			var keep uint16
			switch mode {
			case ModeOverwrite:
				keep = ^(uint16(0xff) << g.yOffset)
			case ModeSelfMasked:
				keep = ^bits
			case ModeErase:
				keep = ^bits
				bits = 0
			case ModeMasked:
				m := uint16(mask[mofs]) << g.yOffset
				keep = ^m
				bits &= m
			case ModePlusMask:
				m := uint16(img[bofs+1]) << g.yOffset
				keep = ^m
				bits &= m
			}

			if page >= 0 {
				fb.buf[ofs] = fb.buf[ofs]&byte(keep) | byte(bits)
			}
			if g.yOffset != 0 && page < fb.pages-1 {
				hi := ofs + fb.width
				fb.buf[hi] = fb.buf[hi]&byte(keep>>8) | byte(bits>>8)
			}

			ofs++
			bofs += step
			mofs++
		}
		page++
		bofs += (w - g.width) * step
		mofs += w - g.width
		ofs += fb.width - g.width
	}
}

// DrawSprite draws frame of bmp at (x, y) in the given mode, clipping
// against all four buffer edges. A nil bitmap, a mode needing a mask
// without one, or a frame outside the resource draws nothing.
func (fb *FrameBuffer) DrawSprite(x, y int, bmp *bitmap.Bitmap, frame int, mask *bitmap.Bitmap, maskFrame int, mode DrawMode) {
	if bmp == nil {
		return
	}

	if mode == ModeAuto {
		if mask != nil {
			mode = ModeMasked
		} else {
			mode = ModeOverwrite
		}
	}
	if mode == ModeMasked && mask == nil {
		return
	}
	if frame < 0 || maskFrame < 0 {
		return
	}

	w, h := bmp.Width(), bmp.Height()
	frameSize := bmp.FrameSize()

	step := 1
	if mode == ModePlusMask {
		step = 2
	}

	ofs := frame * frameSize * step
	if ofs+frameSize*step > len(bmp.Data()) {
		return
	}
	img := bmp.Data()[ofs:]

	var maskData []byte
	if mode == ModeMasked {
		// Mask resources are plain layout, so a mask frame is
		// addressed with the image frame size.
		mofs := maskFrame * frameSize
		if mofs+frameSize > len(mask.Data()) {
			return
		}
		maskData = mask.Data()[mofs:]
	}

	fb.blit(x, y, img, maskData, w, h, mode)
}

// DrawOverwrite replaces the destination with frame of bmp: lit pixels
// set, dark pixels cleared.
func (fb *FrameBuffer) DrawOverwrite(x, y int, bmp *bitmap.Bitmap, frame int) {
	fb.DrawSprite(x, y, bmp, frame, nil, 0, ModeOverwrite)
}

// DrawSelfMasked sets every pixel lit in frame of bmp and leaves the
// rest of the destination untouched.
func (fb *FrameBuffer) DrawSelfMasked(x, y int, bmp *bitmap.Bitmap, frame int) {
	fb.DrawSprite(x, y, bmp, frame, nil, 0, ModeSelfMasked)
}

// DrawErase clears every pixel lit in frame of bmp and leaves the rest
// of the destination untouched.
func (fb *FrameBuffer) DrawErase(x, y int, bmp *bitmap.Bitmap, frame int) {
	fb.DrawSprite(x, y, bmp, frame, nil, 0, ModeErase)
}

// DrawPlusMask draws frame of a resource in interleaved mask layout: the
// mask bytes choose which destination bits are replaced, the image bytes
// supply their values.
func (fb *FrameBuffer) DrawPlusMask(x, y int, bmp *bitmap.Bitmap, frame int) {
	fb.DrawSprite(x, y, bmp, frame, nil, 0, ModePlusMask)
}

// DrawExternalMask draws frame of bmp through maskFrame of mask: bits
// lit in the mask take the image, bits dark in the mask keep the
// destination.
func (fb *FrameBuffer) DrawExternalMask(x, y int, bmp, mask *bitmap.Bitmap, frame, maskFrame int) {
	fb.DrawSprite(x, y, bmp, frame, mask, maskFrame, ModeMasked)
}
