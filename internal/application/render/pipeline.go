// Package render composes draw subscribers onto a shared drawing surface.
//
// A Pipeline is itself an update subscriber of a loop.Scheduler. On every
// update it resets the surface transform, clears the surface and then calls
// each draw subscriber in registration order with the surface and the frame
// delta.
//
// Draw subscribers share one surface and are not isolated from each other.
// A subscriber that changes the transform or paint state must scope the
// change itself:
//
//	dc.Push()
//	defer dc.Pop()
package render

import (
	"time"

	"github.com/younwookim/sprite2d/internal/application/loop"
	"github.com/younwookim/sprite2d/internal/application/subscriber"
)

// Surface is the part of a drawing context the pipeline needs between frames.
// *gg.Context satisfies it.
type Surface interface {
	// Identity resets the transform to the identity matrix.
	Identity()
	// Clear clears the whole surface.
	Clear()
}

// DrawFunc paints one subscriber's content for a frame.
type DrawFunc[C Surface] func(ctx C, dt time.Duration) error

// Pipeline owns a surface and the draw subscribers painting onto it.
type Pipeline[C Surface] struct {
	surface C
	draws   *subscriber.Registry[DrawFunc[C]]

	updates subscriber.Subscriber[loop.UpdateFunc]
	token   subscriber.Token
	frames  uint64
}

// New creates an unmounted pipeline drawing onto surface.
func New[C Surface](surface C) *Pipeline[C] {
	return &Pipeline[C]{
		surface: surface,
		draws:   subscriber.New[DrawFunc[C]](),
	}
}

// Draws returns the handle draw subscribers register with.
func (p *Pipeline[C]) Draws() subscriber.Subscriber[DrawFunc[C]] {
	return p.draws
}

// Surface returns the drawing surface.
func (p *Pipeline[C]) Surface() C {
	return p.surface
}

// Frames returns the number of completed draw passes.
func (p *Pipeline[C]) Frames() uint64 {
	return p.frames
}

// Mounted reports whether the pipeline is subscribed to a scheduler.
func (p *Pipeline[C]) Mounted() bool {
	return p.token != 0
}

// Mount subscribes the pipeline to updates. Mounting a mounted pipeline does
// nothing.
func (p *Pipeline[C]) Mount(updates subscriber.Subscriber[loop.UpdateFunc]) {
	if p.Mounted() {
		return
	}
	p.updates = updates
	p.token = updates.Subscribe(p.Update)
}

// Unmount removes the pipeline from the scheduler it was mounted on.
func (p *Pipeline[C]) Unmount() {
	if !p.Mounted() {
		return
	}
	p.updates.Unsubscribe(p.token)
	p.updates = nil
	p.token = 0
}

// Update runs one draw pass. It is the pipeline's update subscription but can
// also be driven directly.
func (p *Pipeline[C]) Update(dt time.Duration) error {
	p.surface.Identity()
	p.surface.Clear()

	err := p.draws.Notify(func(draw DrawFunc[C]) error {
		return draw(p.surface, dt)
	})
	if err != nil {
		return err
	}
	p.frames++
	return nil
}
