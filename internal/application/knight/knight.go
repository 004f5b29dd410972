// Package knight draws the demo character: a walking knight swinging a
// sword, composed from three animations of the "knight" atlas.
package knight

import (
	"time"

	"github.com/gogpu/gg"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/younwookim/sprite2d/internal/domain/atlas"
)

// Atlas and animation names looked up in the scene
const (
	AtlasID   = "knight"
	LegsAnim  = "walk"
	BodyAnim  = "sword_slash_2"
	HeadAnim  = "head_2"
	bobPeriod = 0.6 // seconds per half swing
)

// AtlasSource resolves atlases by id. *scene.Handle satisfies it.
type AtlasSource interface {
	GetAtlas(id string) *atlas.Atlas
}

// Knight is a draw subscriber for render.Pipeline[*gg.Context].
type Knight struct {
	X, Y      float64 // top-left corner of every layer
	Angle     float64 // radians, applied about (PivotX, PivotY)
	PivotX    float64
	PivotY    float64
	BobHeight float64 // vertical sway in pixels; 0 disables it

	src    AtlasSource
	anim   *atlas.Animator
	bob    *gween.Tween
	bobUp  bool
	offset float64
}

// New creates a knight at (100, 100) tilted -0.9 rad about (147, 147).
func New(src AtlasSource) *Knight {
	return &Knight{
		X:         100,
		Y:         100,
		Angle:     -0.9,
		PivotX:    147,
		PivotY:    147,
		BobHeight: 4,
		src:       src,
		anim:      atlas.NewAnimator(atlas.DefaultFrameTime),
	}
}

// Frame returns the current animation frame index.
func (k *Knight) Frame() int {
	return k.anim.Index()
}

// Draw renders the knight and advances its animation by dt. Nothing is drawn
// until the atlas is loaded and drawable.
func (k *Knight) Draw(dc *gg.Context, dt time.Duration) error {
	a := k.src.GetAtlas(AtlasID)
	if !a.Drawable() {
		return nil
	}

	dc.Push()
	defer dc.Pop()

	if k.Angle != 0 {
		dc.RotateAbout(k.Angle, k.PivotX, k.PivotY)
	}

	i := k.anim.Index()
	y := k.Y + k.offset
	a.DrawFrame(dc, LegsAnim, i, k.X, y)
	a.DrawFrame(dc, BodyAnim, i, k.X, y)
	a.DrawFrame(dc, HeadAnim, 0, k.X, y)

	// The body swing bounds the shared frame index.
	body, _ := a.Frame(BodyAnim)
	k.anim.Step(dt, body.Count())
	k.sway(dt)
	return nil
}

func (k *Knight) sway(dt time.Duration) {
	if k.BobHeight == 0 {
		k.offset = 0
		return
	}
	if k.bob == nil {
		k.bob = gween.New(0, float32(-k.BobHeight), bobPeriod, ease.InOutSine)
		k.bobUp = true
	}
	val, finished := k.bob.Update(float32(dt.Seconds()))
	k.offset = float64(val)
	if finished {
		to := float32(-k.BobHeight)
		if k.bobUp {
			to = 0
		}
		k.bobUp = !k.bobUp
		k.bob = gween.New(val, to, bobPeriod, ease.InOutSine)
	}
}
