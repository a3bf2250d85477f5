package arduboy2

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MLXXXp/Arduboy2/bitmap"
)

func newScreen(t *testing.T) *FrameBuffer {
	t.Helper()
	fb, err := New(ScreenWidth, ScreenHeight)
	require.NoError(t, err)
	return fb
}

func TestDrawOverwriteAligned(t *testing.T) {
	fb := newScreen(t)
	bmp := bitmap.Raw([]byte{1, 8, 0xff})

	fb.DrawOverwrite(0, 0, bmp, 0)
	assert.Equal(t, byte(0xff), fb.Buffer()[0])
	assert.Equal(t, byte(0x00), fb.Buffer()[1])

	fb.DrawOverwrite(3, 8, bmp, 0)
	assert.Equal(t, byte(0xff), fb.Buffer()[ScreenWidth+3])
}

func TestDrawOverwriteSubPage(t *testing.T) {
	fb := newScreen(t)
	bmp := bitmap.Raw([]byte{1, 8, 0xff})

	// A column of 8 at y=3 straddles pages 0 and 1: the low 5 rows land
	// in the bottom of page 0, the high 3 spill into the top of page 1.
	fb.DrawOverwrite(0, 3, bmp, 0)
	assert.Equal(t, byte(0xf8), fb.Buffer()[0])
	assert.Equal(t, byte(0x07), fb.Buffer()[ScreenWidth])
	assert.Equal(t, byte(0x00), fb.Buffer()[2*ScreenWidth])
}

func TestDrawOverwriteSubPageTall(t *testing.T) {
	fb := newScreen(t)
	bmp := bitmap.Raw([]byte{1, 16, 0xff, 0xff})

	fb.DrawOverwrite(0, 3, bmp, 0)
	assert.Equal(t, byte(0xf8), fb.Buffer()[0])
	assert.Equal(t, byte(0xff), fb.Buffer()[ScreenWidth])
	assert.Equal(t, byte(0x07), fb.Buffer()[2*ScreenWidth])
}

func TestDrawOverwriteSmallBuffer(t *testing.T) {
	fb, err := New(1, 16)
	require.NoError(t, err)
	bmp := bitmap.Raw([]byte{1, 8, 0xff})

	fb.DrawOverwrite(0, 3, bmp, 0)
	assert.Equal(t, []byte{0xf8, 0x07}, fb.Buffer())
}

func TestDrawOverwriteSmallBufferBottomClip(t *testing.T) {
	fb, err := New(1, 16)
	require.NoError(t, err)
	bmp := bitmap.Raw([]byte{1, 16, 0xff, 0xff})

	// The second source byte straddles into a third page that does not
	// exist, so only its low half lands.
	fb.DrawOverwrite(0, 3, bmp, 0)
	assert.Equal(t, []byte{0xf8, 0xff}, fb.Buffer())
}

func TestDrawOverwriteIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	data := make([]byte, 2+2*16)
	data[0], data[1] = 16, 16
	r.Read(data[2:])
	bmp := bitmap.Raw(data)

	fb := newScreen(t)
	fb.DrawOverwrite(37, 21, bmp, 0)
	first := append([]byte(nil), fb.Buffer()...)
	fb.DrawOverwrite(37, 21, bmp, 0)
	assert.Equal(t, first, fb.Buffer())
}

func TestDrawSelfMaskedAndErase(t *testing.T) {
	fb := newScreen(t)
	fb.Buffer()[0] = 0xaa
	bmp := bitmap.Raw([]byte{1, 8, 0x0f})

	fb.DrawSelfMasked(0, 0, bmp, 0)
	assert.Equal(t, byte(0xaf), fb.Buffer()[0])

	fb.DrawErase(0, 0, bmp, 0)
	assert.Equal(t, byte(0xa0), fb.Buffer()[0])
}

func TestDrawExternalMask(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	data := make([]byte, 2+16)
	data[0], data[1] = 8, 16
	r.Read(data[2:])
	bmp := bitmap.Raw(data)

	bg := make([]byte, ScreenWidth*ScreenHeight/8)
	r.Read(bg)

	ones := append([]byte{8, 16}, bytes.Repeat([]byte{0xff}, 16)...)
	zeros := append([]byte{8, 16}, make([]byte, 16)...)

	// An all ones mask behaves exactly like overwrite.
	fb1, fb2 := newScreen(t), newScreen(t)
	copy(fb1.Buffer(), bg)
	copy(fb2.Buffer(), bg)
	fb1.DrawExternalMask(11, 13, bmp, bitmap.Raw(ones), 0, 0)
	fb2.DrawOverwrite(11, 13, bmp, 0)
	assert.Equal(t, fb2.Buffer(), fb1.Buffer())

	// An all zeros mask leaves the destination untouched.
	fb3 := newScreen(t)
	copy(fb3.Buffer(), bg)
	fb3.DrawExternalMask(11, 13, bmp, bitmap.Raw(zeros), 0, 0)
	assert.Equal(t, bg, fb3.Buffer())
}

func TestDrawPlusMask(t *testing.T) {
	fb := newScreen(t)
	fb.Buffer()[0] = 0xff

	// Mask clears a 0x7e window, image writes 0x3c into it.
	bmp := bitmap.Raw([]byte{1, 8, 0x3c, 0x7e})
	fb.DrawPlusMask(0, 0, bmp, 0)
	assert.Equal(t, byte(0xbd), fb.Buffer()[0])
}

func TestDrawSpriteAuto(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	data := make([]byte, 2+8)
	data[0], data[1] = 8, 8
	r.Read(data[2:])
	bmp := bitmap.Raw(data)

	mdata := make([]byte, 2+8)
	mdata[0], mdata[1] = 8, 8
	r.Read(mdata[2:])
	mask := bitmap.Raw(mdata)

	bg := make([]byte, ScreenWidth*ScreenHeight/8)
	r.Read(bg)

	fb1, fb2 := newScreen(t), newScreen(t)
	copy(fb1.Buffer(), bg)
	copy(fb2.Buffer(), bg)
	fb1.DrawSprite(5, 9, bmp, 0, mask, 0, ModeAuto)
	fb2.DrawExternalMask(5, 9, bmp, mask, 0, 0)
	assert.Equal(t, fb2.Buffer(), fb1.Buffer())

	fb1.Clear()
	fb2.Clear()
	copy(fb1.Buffer(), bg)
	copy(fb2.Buffer(), bg)
	fb1.DrawSprite(5, 9, bmp, 0, nil, 0, ModeAuto)
	fb2.DrawOverwrite(5, 9, bmp, 0)
	assert.Equal(t, fb2.Buffer(), fb1.Buffer())
}

func TestDrawSpriteNoops(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	bg := make([]byte, ScreenWidth*ScreenHeight/8)
	r.Read(bg)

	data := make([]byte, 2+2*8)
	data[0], data[1] = 8, 16
	r.Read(data[2:])
	bmp := bitmap.Raw(data)

	fb := newScreen(t)
	copy(fb.Buffer(), bg)

	fb.DrawOverwrite(0, 0, nil, 0)
	fb.DrawSprite(0, 0, bmp, 0, nil, 0, ModeMasked) // mask required
	fb.DrawOverwrite(0, 0, bmp, 3)                  // past the last frame
	fb.DrawOverwrite(0, 0, bmp, -1)

	// Entirely off every edge.
	fb.DrawOverwrite(-8, 0, bmp, 0)
	fb.DrawOverwrite(ScreenWidth, 0, bmp, 0)
	fb.DrawOverwrite(0, -16, bmp, 0)
	fb.DrawOverwrite(0, ScreenHeight, bmp, 0)

	assert.Equal(t, bg, fb.Buffer())
}

// bitAt reads one pixel of packed frame data laid out step bytes per
// column byte, off bytes in.
func bitAt(data []byte, w, sx, sy, step, off int) bool {
	return data[((sy/8)*w+sx)*step+off]>>(sy%8)&1 != 0
}

// modelDraw is a pixel at a time rendering of the sprite modes with none
// of the page arithmetic the blitter uses.
func modelDraw(fb *FrameBuffer, x, y int, bmp, mask *bitmap.Bitmap, frame, maskFrame int, mode DrawMode) {
	w, h := bmp.Width(), bmp.Height()
	fs := bmp.FrameSize()

	var img []byte
	step := 1
	if mode == ModePlusMask {
		step = 2
		img = bmp.Data()[frame*fs*2:]
	} else {
		img = bmp.Frame(frame)
	}
	var mdata []byte
	if mode == ModeMasked {
		mdata = mask.Data()[maskFrame*fs:]
	}

	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			dx, dy := x+sx, y+sy
			if dx < 0 || dx >= fb.Width() || dy < 0 || dy >= fb.Height() {
				continue
			}

			s := bitAt(img, w, sx, sy, step, 0)
			var write, on bool
			switch mode {
			case ModeOverwrite:
				write, on = true, s
			case ModeSelfMasked:
				write, on = s, true
			case ModeErase:
				write, on = s, false
			case ModeMasked:
				write, on = bitAt(mdata, w, sx, sy, 1, 0), s
			case ModePlusMask:
				write, on = bitAt(img, w, sx, sy, 2, 1), s
			}
			if !write {
				continue
			}
			if on {
				fb.SetPixel(dx, dy, White)
			} else {
				fb.SetPixel(dx, dy, Black)
			}
		}
	}
}

func TestBlitMatchesPixelModel(t *testing.T) {
	r := rand.New(rand.NewSource(8))

	data := make([]byte, 2+2*32)
	data[0], data[1] = 16, 16
	r.Read(data[2:])
	bmp := bitmap.Raw(data)

	mdata := make([]byte, 2+2*32)
	mdata[0], mdata[1] = 16, 16
	r.Read(mdata[2:])
	mask := bitmap.Raw(mdata)

	plus, err := bitmap.Interleave(bmp, mask)
	require.NoError(t, err)

	bg := make([]byte, ScreenWidth*ScreenHeight/8)
	r.Read(bg)

	modes := []DrawMode{ModeOverwrite, ModeSelfMasked, ModeErase, ModeMasked, ModePlusMask}
	for _, mode := range modes {
		for y := -24; y <= 70; y += 3 {
			for x := -20; x <= 132; x += 7 {
				got, want := newScreen(t), newScreen(t)
				copy(got.Buffer(), bg)
				copy(want.Buffer(), bg)

				switch mode {
				case ModePlusMask:
					got.DrawSprite(x, y, plus, 1, nil, 0, mode)
					modelDraw(want, x, y, plus, nil, 1, 0, mode)
				case ModeMasked:
					got.DrawSprite(x, y, bmp, 1, mask, 1, mode)
					modelDraw(want, x, y, bmp, mask, 1, 1, mode)
				default:
					got.DrawSprite(x, y, bmp, 1, nil, 0, mode)
					modelDraw(want, x, y, bmp, nil, 1, 0, mode)
				}

				require.True(t, bytes.Equal(want.Buffer(), got.Buffer()),
					"mode %d at (%d, %d)", mode, x, y)
			}
		}
	}
}

func TestDrawSpriteFrames(t *testing.T) {
	fb := newScreen(t)

	bmp := bitmap.Raw([]byte{
		2, 8,
		0x11, 0x22, // frame 0
		0x33, 0x44, // frame 1
	})
	fb.DrawOverwrite(0, 0, bmp, 1)
	assert.Equal(t, byte(0x33), fb.Buffer()[0])
	assert.Equal(t, byte(0x44), fb.Buffer()[1])

	// Interleaved frames are twice the size.
	plus := bitmap.Raw([]byte{
		1, 8,
		0x0f, 0xff, // frame 0
		0xf0, 0xff, // frame 1
	})
	fb.Clear()
	fb.DrawPlusMask(0, 0, plus, 1)
	assert.Equal(t, byte(0xf0), fb.Buffer()[0])
}
