// Package game hosts the frame loop inside ebiten.
//
// Game is both the ebiten.Game handed to ebiten.RunGame and the
// loop.FrameSource a Scheduler runs on: every ebiten Update fires the pending
// frame requests with a monotonic timestamp, and every Draw presents the
// offscreen canvas on the screen.
package game

import (
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/sprite2d/internal/application/loop"
)

// Canvas is the offscreen surface presented each frame. *gg.Context
// satisfies it.
type Canvas interface {
	Width() int
	Height() int
	Image() image.Image
}

// Option configures a Game.
type Option func(*Game)

// WithClock replaces the monotonic clock used for frame timestamps.
func WithClock(now func() time.Duration) Option {
	return func(g *Game) {
		g.now = now
	}
}

// WithBackground sets the colour filled behind the canvas.
func WithBackground(c color.Color) Option {
	return func(g *Game) {
		g.background = c
	}
}

// Game implements ebiten.Game and loop.FrameSource.
type Game struct {
	canvas     Canvas
	frames     *loop.ManualSource
	now        func() time.Duration
	last       time.Duration
	background color.Color
	screen     *ebiten.Image
	scratch    *image.RGBA
}

var (
	_ ebiten.Game      = (*Game)(nil)
	_ loop.FrameSource = (*Game)(nil)
)

// New creates a host presenting canvas.
func New(canvas Canvas, opts ...Option) *Game {
	start := time.Now()
	g := &Game{
		canvas: canvas,
		frames: loop.NewManualSource(),
		now:    func() time.Duration { return time.Since(start) },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RequestFrame queues fn for the next Update.
func (g *Game) RequestFrame(fn loop.FrameFunc) loop.FrameID {
	return g.frames.RequestFrame(fn)
}

// CancelFrame drops a queued request.
func (g *Game) CancelFrame(id loop.FrameID) {
	g.frames.CancelFrame(id)
}

// Update fires the pending frame requests.
// An error from a frame callback is returned to ebiten, which ends the game.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	ts := g.now()
	if ts < g.last {
		ts = g.last
	}
	g.last = ts
	return g.frames.Advance(ts)
}

// Draw presents the canvas.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.background != nil {
		screen.Fill(g.background)
	}

	w, h := g.canvas.Width(), g.canvas.Height()
	if g.screen == nil || g.screen.Bounds().Dx() != w || g.screen.Bounds().Dy() != h {
		if g.screen != nil {
			g.screen.Deallocate()
		}
		g.screen = ebiten.NewImage(w, h)
	}

	g.screen.WritePixels(g.pixels(g.canvas.Image()))
	screen.DrawImage(g.screen, nil)
}

// pixels returns img as tightly packed premultiplied RGBA. Images that are
// not already *image.RGBA are converted into a buffer reused across frames.
func (g *Game) pixels(img image.Image) []byte {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*b.Dx() {
		return rgba.Pix
	}
	if g.scratch == nil || g.scratch.Bounds() != image.Rect(0, 0, b.Dx(), b.Dy()) {
		g.scratch = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(g.scratch, g.scratch.Bounds(), img, b.Min, draw.Src)
	return g.scratch.Pix
}

// Layout returns the canvas dimensions.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.canvas.Width(), g.canvas.Height()
}

// Pending returns the number of queued frame requests.
func (g *Game) Pending() int {
	return g.frames.Pending()
}
