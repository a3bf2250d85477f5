package arduboy2

// DrawHLine draws a horizontal run of w pixels starting at (x, y),
// working directly on whole buffer bytes.
func (fb *FrameBuffer) DrawHLine(x, y, w int, c Color) {
	if y < 0 || y >= fb.height {
		return
	}

	xEnd := x + w
	if xEnd <= 0 || x >= fb.width {
		return
	}
	if x < 0 {
		x = 0
	}
	if xEnd > fb.width {
		xEnd = fb.width
	}

	ofs := (y/pageHeight)*fb.width + x
	mask := byte(1) << (y % pageHeight)
	switch c {
	case White:
		for i := ofs; i < ofs+xEnd-x; i++ {
			fb.buf[i] |= mask
		}
	case Black:
		for i := ofs; i < ofs+xEnd-x; i++ {
			fb.buf[i] &^= mask
		}
	default:
		for i := ofs; i < ofs+xEnd-x; i++ {
			fb.buf[i] ^= mask
		}
	}
}

// DrawVLine draws a vertical run of h pixels starting at (x, y).
func (fb *FrameBuffer) DrawVLine(x, y, h int, c Color) {
	end := y + h
	if y < 0 {
		y = 0
	}
	for ; y < end && y < fb.height; y++ {
		fb.SetPixel(x, y, c)
	}
}

// DrawLine draws a line between (x0, y0) and (x1, y1) inclusive.
func (fb *FrameBuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	err := dx / 2
	ystep := -1
	if y0 < y1 {
		ystep = 1
	}

	for ; x0 <= x1; x0++ {
		if steep {
			fb.SetPixel(y0, x0, c)
		} else {
			fb.SetPixel(x0, y0, c)
		}
		err -= dy
		if err < 0 {
			y0 += ystep
			err += dx
		}
	}
}

// DrawRect outlines a w by h rectangle with its top left corner at
// (x, y).
func (fb *FrameBuffer) DrawRect(x, y, w, h int, c Color) {
	fb.DrawHLine(x, y, w, c)
	fb.DrawHLine(x, y+h-1, w, c)
	fb.DrawVLine(x, y, h, c)
	fb.DrawVLine(x+w-1, y, h, c)
}

// FillRect fills a w by h rectangle with its top left corner at (x, y).
func (fb *FrameBuffer) FillRect(x, y, w, h int, c Color) {
	for i := x; i < x+w; i++ {
		fb.DrawVLine(i, y, h, c)
	}
}

// DrawCircle outlines a circle of radius r centered on (x0, y0).
func (fb *FrameBuffer) DrawCircle(x0, y0, r int, c Color) {
	f := 1 - r
	ddFx := 1
	ddFy := -2 * r
	x := 0
	y := r

	fb.SetPixel(x0, y0+r, c)
	fb.SetPixel(x0, y0-r, c)
	fb.SetPixel(x0+r, y0, c)
	fb.SetPixel(x0-r, y0, c)

	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}
		x++
		ddFx += 2
		f += ddFx

		fb.SetPixel(x0+x, y0+y, c)
		fb.SetPixel(x0-x, y0+y, c)
		fb.SetPixel(x0+x, y0-y, c)
		fb.SetPixel(x0-x, y0-y, c)
		fb.SetPixel(x0+y, y0+x, c)
		fb.SetPixel(x0-y, y0+x, c)
		fb.SetPixel(x0+y, y0-x, c)
		fb.SetPixel(x0-y, y0-x, c)
	}
}

// circleHelper draws the selected quarter arcs of a circle of radius r
// centered on (x0, y0). Bits 0 to 3 of corners select upper left, upper
// right, lower right and lower left.
func (fb *FrameBuffer) circleHelper(x0, y0, r int, corners uint8, c Color) {
	f := 1 - r
	ddFx := 1
	ddFy := -2 * r
	x := 0
	y := r

	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}
		x++
		ddFx += 2
		f += ddFx

		if corners&0x4 != 0 { // lower right
			fb.SetPixel(x0+x, y0+y, c)
			fb.SetPixel(x0+y, y0+x, c)
		}
		if corners&0x2 != 0 { // upper right
			fb.SetPixel(x0+x, y0-y, c)
			fb.SetPixel(x0+y, y0-x, c)
		}
		if corners&0x8 != 0 { // lower left
			fb.SetPixel(x0-y, y0+x, c)
			fb.SetPixel(x0-x, y0+y, c)
		}
		if corners&0x1 != 0 { // upper left
			fb.SetPixel(x0-y, y0-x, c)
			fb.SetPixel(x0-x, y0-y, c)
		}
	}
}

// FillCircle fills a circle of radius r centered on (x0, y0).
func (fb *FrameBuffer) FillCircle(x0, y0, r int, c Color) {
	fb.DrawVLine(x0, y0-r, 2*r+1, c)
	fb.fillCircleHelper(x0, y0, r, 3, 0, c)
}

// fillCircleHelper fills the selected half circles of radius r centered
// on (x0, y0). Bit 0 of sides selects the right half, bit 1 the left;
// delta stretches the halves vertically for rounded rectangles.
func (fb *FrameBuffer) fillCircleHelper(x0, y0, r int, sides uint8, delta int, c Color) {
	f := 1 - r
	ddFx := 1
	ddFy := -2 * r
	x := 0
	y := r

	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}
		x++
		ddFx += 2
		f += ddFx

		if sides&0x1 != 0 { // right side
			fb.DrawVLine(x0+x, y0-y, 2*y+1+delta, c)
			fb.DrawVLine(x0+y, y0-x, 2*x+1+delta, c)
		}
		if sides&0x2 != 0 { // left side
			fb.DrawVLine(x0-x, y0-y, 2*y+1+delta, c)
			fb.DrawVLine(x0-y, y0-x, 2*x+1+delta, c)
		}
	}
}

// DrawRoundRect outlines a w by h rectangle with corners rounded to
// radius r.
func (fb *FrameBuffer) DrawRoundRect(x, y, w, h, r int, c Color) {
	fb.DrawHLine(x+r, y, w-2*r, c)     // top
	fb.DrawHLine(x+r, y+h-1, w-2*r, c) // bottom
	fb.DrawVLine(x, y+r, h-2*r, c)     // left
	fb.DrawVLine(x+w-1, y+r, h-2*r, c) // right

	fb.circleHelper(x+r, y+r, r, 1, c)
	fb.circleHelper(x+w-r-1, y+r, r, 2, c)
	fb.circleHelper(x+w-r-1, y+h-r-1, r, 4, c)
	fb.circleHelper(x+r, y+h-r-1, r, 8, c)
}

// FillRoundRect fills a w by h rectangle with corners rounded to radius
// r.
func (fb *FrameBuffer) FillRoundRect(x, y, w, h, r int, c Color) {
	fb.FillRect(x+r, y, w-2*r, h, c)

	fb.fillCircleHelper(x+w-r-1, y+r, r, 1, h-2*r-1, c)
	fb.fillCircleHelper(x+r, y+r, r, 2, h-2*r-1, c)
}

// DrawTriangle outlines a triangle over the three given points.
func (fb *FrameBuffer) DrawTriangle(x0, y0, x1, y1, x2, y2 int, c Color) {
	fb.DrawLine(x0, y0, x1, y1, c)
	fb.DrawLine(x1, y1, x2, y2, c)
	fb.DrawLine(x2, y2, x0, y0, c)
}

// FillTriangle fills a triangle over the three given points with
// horizontal scanlines.
func (fb *FrameBuffer) FillTriangle(x0, y0, x1, y1, x2, y2 int, c Color) {
	// Sort by y so y2 >= y1 >= y0.
	if y0 > y1 {
		y0, y1 = y1, y0
		x0, x1 = x1, x0
	}
	if y1 > y2 {
		y2, y1 = y1, y2
		x2, x1 = x1, x2
	}
	if y0 > y1 {
		y0, y1 = y1, y0
		x0, x1 = x1, x0
	}

	if y0 == y2 {
		// Degenerate all-on-one-line case.
		a, b := x0, x0
		if x1 < a {
			a = x1
		} else if x1 > b {
			b = x1
		}
		if x2 < a {
			a = x2
		} else if x2 > b {
			b = x2
		}
		fb.DrawHLine(a, y0, b-a+1, c)
		return
	}

	dx01 := x1 - x0
	dy01 := y1 - y0
	dx02 := x2 - x0
	dy02 := y2 - y0
	dx12 := x2 - x1
	dy12 := y2 - y1
	sa := 0
	sb := 0

	// The scanline at y1 belongs to the upper half only when the bottom
	// edge is flat, which also keeps both halves clear of zero length
	// edges.
	last := y1 - 1
	if y1 == y2 {
		last = y1
	}

	y := y0
	for ; y <= last; y++ {
		a := x0 + sa/dy01
		b := x0 + sb/dy02
		sa += dx01
		sb += dx02
		if a > b {
			a, b = b, a
		}
		fb.DrawHLine(a, y, b-a+1, c)
	}

	sa = dx12 * (y - y1)
	sb = dx02 * (y - y0)
	for ; y <= y2; y++ {
		a := x1 + sa/dy12
		b := x0 + sb/dy02
		sa += dx12
		sb += dx02
		if a > b {
			a, b = b, a
		}
		fb.DrawHLine(a, y, b-a+1, c)
	}
}

// DrawBitmap draws bare packed bitmap data, w pixels wide and h tall, at
// (x, y). White overlays the lit bits, Black clears them and Invert
// toggles them; dark source bits never touch the destination.
func (fb *FrameBuffer) DrawBitmap(x, y int, data []byte, w, h int, c Color) {
	if len(data) < w*((h+pageHeight-1)/pageHeight) {
		return
	}
	g, ok := fb.clip(x, y, w, h)
	if !ok {
		return
	}

	bofs := g.rowSkip*w + g.colSkip
	ofs := g.ofs
	page := g.page

	for row := 0; row < g.rows; row++ {
		for i := 0; i < g.width; i++ {
			bits := uint16(data[bofs]) << g.yOffset
			if page >= 0 {
				switch c {
				case White:
					fb.buf[ofs] |= byte(bits)
				case Black:
					fb.buf[ofs] &^= byte(bits)
				default:
					fb.buf[ofs] ^= byte(bits)
				}
			}
			if g.yOffset != 0 && page < fb.pages-1 {
				hi := ofs + fb.width
				switch c {
				case White:
					fb.buf[hi] |= byte(bits >> 8)
				case Black:
					fb.buf[hi] &^= byte(bits >> 8)
				default:
					fb.buf[hi] ^= byte(bits >> 8)
				}
			}
			ofs++
			bofs++
		}
		page++
		bofs += w - g.width
		ofs += fb.width - g.width
	}
}

// DrawXYBitmap draws row major bitmap data, one bit per pixel with the
// most significant bit leftmost and each row padded to a whole byte. It
// is slower than DrawBitmap but matches how most other tools export
// monochrome art.
func (fb *FrameBuffer) DrawXYBitmap(x, y int, data []byte, w, h int, c Color) {
	if x+w <= 0 || x > fb.width-1 || y+h <= 0 || y > fb.height-1 {
		return
	}

	byteWidth := (w + 7) / 8
	if len(data) < h*byteWidth {
		return
	}
	for yi := 0; yi < h; yi++ {
		for xi := 0; xi < w; xi++ {
			if data[yi*byteWidth+xi/8]&(128>>(xi&7)) != 0 {
				fb.SetPixel(x+xi, y+yi, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
