package game

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/sprite2d/internal/application/loop"
	"github.com/younwookim/sprite2d/internal/application/state"
)

// mockCanvas is a test double for Canvas interface
type mockCanvas struct {
	w, h int
}

func (m *mockCanvas) Width() int  { return m.w }
func (m *mockCanvas) Height() int { return m.h }
func (m *mockCanvas) Image() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.w, m.h))
}

// fakeClock returns the timestamps it is given in order
type fakeClock struct {
	ts []time.Duration
	i  int
}

func (c *fakeClock) now() time.Duration {
	t := c.ts[c.i]
	if c.i < len(c.ts)-1 {
		c.i++
	}
	return t
}

func TestGame_Layout(t *testing.T) {
	g := New(&mockCanvas{w: 320, h: 240})

	w, h := g.Layout(640, 480)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestGame_UpdateDrivesScheduler(t *testing.T) {
	clock := &fakeClock{ts: []time.Duration{
		1000 * time.Millisecond,
		1016 * time.Millisecond,
		1033 * time.Millisecond,
	}}
	g := New(&mockCanvas{w: 8, h: 8}, WithClock(clock.now))
	sched := loop.NewScheduler(g)

	var deltas []time.Duration
	sched.Updates().Subscribe(func(dt time.Duration) error {
		deltas = append(deltas, dt)
		return nil
	})
	require.NoError(t, sched.Start())
	assert.Equal(t, 1, g.Pending())

	for i := 0; i < 3; i++ {
		require.NoError(t, g.Update())
	}

	assert.Equal(t, []time.Duration{16 * time.Millisecond, 17 * time.Millisecond}, deltas)
}

func TestGame_TimestampsMonotonic(t *testing.T) {
	clock := &fakeClock{ts: []time.Duration{50, 40, 60}}
	g := New(&mockCanvas{w: 1, h: 1}, WithClock(clock.now))

	var seen []time.Duration
	record := func(ts time.Duration) error {
		seen = append(seen, ts)
		return nil
	}
	for i := 0; i < 3; i++ {
		g.RequestFrame(record)
		require.NoError(t, g.Update())
	}
	assert.Equal(t, []time.Duration{50, 50, 60}, seen)
}

func TestGame_StopCancelsRequest(t *testing.T) {
	g := New(&mockCanvas{w: 1, h: 1})
	sched := loop.NewScheduler(g)
	calls := 0
	sched.Updates().Subscribe(func(time.Duration) error {
		calls++
		return nil
	})
	require.NoError(t, sched.Start())
	require.NoError(t, g.Update())

	sched.Stop()
	assert.Equal(t, 0, g.Pending())
	for i := 0; i < 3; i++ {
		require.NoError(t, g.Update())
	}
	assert.Equal(t, 0, calls)
}

func TestGame_UpdateError(t *testing.T) {
	g := New(&mockCanvas{w: 1, h: 1})
	sched := loop.NewScheduler(g)
	sched.Updates().Subscribe(func(time.Duration) error {
		return assert.AnError
	})
	require.NoError(t, sched.Start())
	require.NoError(t, g.Update())

	err := g.Update()
	assert.Error(t, err, "Error should propagate to ebiten")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, state.LoopStopped, sched.State())
}

func TestGame_PixelsPassThroughRGBA(t *testing.T) {
	g := New(&mockCanvas{w: 2, h: 2})
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	pix := g.pixels(img)
	assert.Same(t, &img.Pix[0], &pix[0], "RGBA canvases should not be copied")
	assert.Nil(t, g.scratch)
}

func TestGame_PixelsConvertsOtherImages(t *testing.T) {
	g := New(&mockCanvas{w: 2, h: 2})
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})

	pix := g.pixels(img)
	require.Len(t, pix, 2*2*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, pix[12:16])

	scratch := g.scratch
	img.Set(0, 0, color.NRGBA{G: 255, A: 255})
	pix = g.pixels(img)
	assert.Same(t, scratch, g.scratch, "Conversion buffer should be reused")
	assert.Equal(t, []byte{0, 255, 0, 255}, pix[0:4])
}
