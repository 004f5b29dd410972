package atlas

import "time"

// DefaultFrameTime is how long each animation frame is shown
const DefaultFrameTime = 100 * time.Millisecond

// Animator advances a frame index over time
type Animator struct {
	FrameTime time.Duration
	elapsed   time.Duration
	index     int
}

// NewAnimator creates an animator showing each frame for frameTime.
// Non-positive values fall back to DefaultFrameTime.
func NewAnimator(frameTime time.Duration) *Animator {
	if frameTime <= 0 {
		frameTime = DefaultFrameTime
	}
	return &Animator{FrameTime: frameTime}
}

// Index returns the current frame index
func (a *Animator) Index() int {
	return a.index
}

// Reset rewinds to frame 0
func (a *Animator) Reset() {
	a.elapsed = 0
	a.index = 0
}

// Step accumulates dt and advances by whole frames, wrapping at count.
// count comes from the animation's own Frame.Count.
func (a *Animator) Step(dt time.Duration, count int) int {
	if count < 1 {
		count = 1
	}
	ft := a.FrameTime
	if ft <= 0 {
		ft = DefaultFrameTime
	}
	a.elapsed += dt
	if a.elapsed >= ft {
		steps := int(a.elapsed / ft)
		a.elapsed -= time.Duration(steps) * ft
		a.index += steps
	}
	a.index %= count
	return a.index
}
