// Command spritedemo bounces a masked sprite around the Arduboy screen,
// scaled up into a desktop window. It exercises the whole drawing stack:
// shape primitives build a logo, the logo travels as a compressed stream
// and every frame composites the ball over it with a plus mask sprite.
//
// With -headless it renders without a window and reports a framebuffer
// checksum, which makes it usable as a smoke test.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/MLXXXp/Arduboy2"
	"github.com/MLXXXp/Arduboy2/bitmap"
	"github.com/MLXXXp/Arduboy2/rle"
)

const (
	logoWidth   = 64
	logoHeight  = 16
	ballSize    = 8
	paddleWidth = 24
)

// Two ball frames, solid and with a punched highlight, above their
// shared round mask.
var ballFrames = bitmap.Raw([]byte{
	ballSize, ballSize,
	0x3c, 0x7e, 0xff, 0xff, 0xff, 0xff, 0x7e, 0x3c,
	0x3c, 0x7e, 0xe7, 0xc3, 0xc3, 0xe7, 0x7e, 0x3c,
})

var ballMask = bitmap.Raw([]byte{
	ballSize, ballSize,
	0x3c, 0x7e, 0xff, 0xff, 0xff, 0xff, 0x7e, 0x3c,
	0x3c, 0x7e, 0xff, 0xff, 0xff, 0xff, 0x7e, 0x3c,
})

// buildLogo draws a face into an offscreen buffer and compresses it, so
// the demo decodes a real stream every frame instead of a canned blob.
func buildLogo() ([]byte, error) {
	fb, err := arduboy2.New(logoWidth, logoHeight)
	if err != nil {
		return nil, err
	}

	fb.DrawRoundRect(0, 0, logoWidth, logoHeight, 4, arduboy2.White)
	fb.FillCircle(10, 8, 3, arduboy2.White)
	fb.FillCircle(53, 8, 3, arduboy2.White)
	fb.DrawRect(22, 4, 20, 4, arduboy2.White)
	fb.DrawLine(22, 11, 41, 11, arduboy2.White)

	var buf bytes.Buffer
	if err := rle.EncodeBitmap(&buf, fb.Buffer(), logoWidth, logoHeight); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

type game struct {
	fb   *arduboy2.FrameBuffer
	tex  *ebiten.Image
	pix  []byte
	logo []byte
	ball *bitmap.Bitmap

	ballX, ballY int
	velX, velY   int
	paddleX      int
	auto         bool
	tick         int
}

func newGame() (*game, error) {
	fb, err := arduboy2.New(arduboy2.ScreenWidth, arduboy2.ScreenHeight)
	if err != nil {
		return nil, err
	}

	logo, err := buildLogo()
	if err != nil {
		return nil, err
	}

	ball, err := bitmap.Interleave(ballFrames, ballMask)
	if err != nil {
		return nil, err
	}

	return &game{
		fb:      fb,
		logo:    logo,
		ball:    ball,
		ballX:   60,
		ballY:   24,
		velX:    2,
		velY:    1,
		paddleX: (arduboy2.ScreenWidth - paddleWidth) / 2,
	}, nil
}

// step advances the world one tick. Input arrives as booleans so the
// headless path can drive it without a keyboard.
func (g *game) step(left, right bool) {
	g.tick++

	if g.auto {
		center := g.paddleX + paddleWidth/2
		left = g.ballX+ballSize/2 < center
		right = g.ballX+ballSize/2 > center
	}

	if left && g.paddleX > 1 {
		g.paddleX -= 2
	}
	if right && g.paddleX < arduboy2.ScreenWidth-1-paddleWidth {
		g.paddleX += 2
	}

	g.ballX += g.velX
	g.ballY += g.velY

	if g.ballX <= 1 || g.ballX >= arduboy2.ScreenWidth-1-ballSize {
		g.velX = -g.velX
	}
	if g.ballY <= 1 {
		g.velY = -g.velY
	}

	paddleY := arduboy2.ScreenHeight - 3
	if g.velY > 0 && g.ballY+ballSize >= paddleY &&
		g.ballX+ballSize > g.paddleX && g.ballX < g.paddleX+paddleWidth {
		g.velY = -g.velY
		g.ballY = paddleY - ballSize
	}

	if g.ballY > arduboy2.ScreenHeight {
		g.ballX, g.ballY = 60, 24
		g.velY = 1
	}
}

func (g *game) render() {
	g.fb.Clear()
	g.fb.DrawRect(0, 0, g.fb.Width(), g.fb.Height(), arduboy2.White)
	g.fb.DrawCompressed((g.fb.Width()-logoWidth)/2, 4, g.logo, arduboy2.White)
	g.fb.FillRect(g.paddleX, arduboy2.ScreenHeight-3, paddleWidth, 2, arduboy2.White)
	g.fb.DrawPlusMask(g.ballX, g.ballY, g.ball, g.tick/8%2)
}

// rgba expands the packed buffer into the RGBA layout WritePixels wants.
func (g *game) rgba() []byte {
	w, h := g.fb.Width(), g.fb.Height()
	if g.pix == nil {
		g.pix = make([]byte, 4*w*h)
	}

	buf := g.fb.Buffer()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := byte(0x00)
			if buf[(y/8)*w+x]>>(y%8)&1 != 0 {
				v = 0xff
			}
			o := 4 * (y*w + x)
			g.pix[o], g.pix[o+1], g.pix[o+2], g.pix[o+3] = v, v, v, 0xff
		}
	}

	return g.pix
}

func (g *game) Update() error {
	g.step(ebiten.IsKeyPressed(ebiten.KeyLeft), ebiten.IsKeyPressed(ebiten.KeyRight))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.render()
	if g.tex == nil {
		g.tex = ebiten.NewImage(g.fb.Width(), g.fb.Height())
	}
	g.tex.WritePixels(g.rgba())
	screen.DrawImage(g.tex, nil)
}

func (g *game) Layout(outW, outH int) (int, int) {
	return arduboy2.ScreenWidth, arduboy2.ScreenHeight
}

func runHeadless(g *game, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		g.step(false, false)
	}
	g.render()
	dur := time.Since(start)

	crc := crc32.ChecksumIEEE(g.fb.Buffer())
	log.Printf("headless: frames=%d elapsed=%s fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), crc)

	if pngPath != "" {
		if err := savePNG(g, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}

	return nil
}

func savePNG(g *game, path string) error {
	w, h := g.fb.Width(), g.fb.Height()
	img := &image.RGBA{
		Pix:    g.rgba(),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

func main() {
	scale := flag.Int("scale", 4, "window scale")
	headless := flag.Bool("headless", false, "run without a window")
	frames := flag.Int("frames", 300, "frames to run in headless mode")
	outPNG := flag.String("outpng", "", "write last framebuffer to PNG at path")
	expect := flag.String("expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()

	g, err := newGame()
	if err != nil {
		log.Fatal(err)
	}

	if *headless {
		g.auto = true
		if err := runHeadless(g, *frames, *outPNG, *expect); err != nil {
			log.Fatal(err)
		}
		return
	}

	ebiten.SetWindowTitle("spritedemo")
	ebiten.SetWindowSize(arduboy2.ScreenWidth*(*scale), arduboy2.ScreenHeight*(*scale))
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
