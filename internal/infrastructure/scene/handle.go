package scene

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/younwookim/sprite2d/internal/application/state"
	"github.com/younwookim/sprite2d/internal/domain/atlas"
)

// ErrNotLoaded is returned by Handle.Scene before a load has succeeded.
var ErrNotLoaded = errors.New("scene: not loaded")

// result is published once when a load settles.
type result struct {
	scene *Scene
	err   error
}

// Handle is the read-only view of a scene that frame callbacks poll.
// It starts empty; Start loads a scene in the background and publishes it in
// a single step, after which GetAtlas returns data. Safe for use from the
// frame loop while the load goroutine runs.
type Handle struct {
	status atomic.Int32
	res    atomic.Pointer[result]
	done   chan struct{}
}

// NewHandle creates an empty handle.
func NewHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Start loads manifestURL with l on a new goroutine. A handle can be started
// once; later calls are ignored.
func (h *Handle) Start(ctx context.Context, l *Loader, manifestURL string) {
	if !h.status.CompareAndSwap(int32(state.LoadPending), int32(state.LoadLoading)) {
		return
	}
	go func() {
		s, err := l.Load(ctx, manifestURL)
		h.settle(s, err)
	}()
}

func (h *Handle) settle(s *Scene, err error) {
	h.res.Store(&result{scene: s, err: err})
	if err != nil {
		h.status.Store(int32(state.LoadFailed))
	} else {
		h.status.Store(int32(state.LoadLoaded))
	}
	close(h.done)
}

// State returns the load progress.
func (h *Handle) State() state.LoadState {
	return state.LoadState(h.status.Load())
}

// Err returns the manifest error of a failed load.
func (h *Handle) Err() error {
	if r := h.res.Load(); r != nil {
		return r.err
	}
	return nil
}

// Scene returns the loaded scene, or ErrNotLoaded (or the load error) when
// none is available.
func (h *Handle) Scene() (*Scene, error) {
	r := h.res.Load()
	switch {
	case r == nil:
		return nil, ErrNotLoaded
	case r.err != nil:
		return nil, r.err
	default:
		return r.scene, nil
	}
}

// GetAtlas returns the atlas registered under id. It returns nil while the
// scene is loading, after a failed load, and for ids the manifest does not
// reference. An atlas that failed to load is returned as a placeholder with
// no frames and no image.
func (h *Handle) GetAtlas(id string) *atlas.Atlas {
	r := h.res.Load()
	if r == nil || r.err != nil {
		return nil
	}
	return r.scene.Atlas(id)
}

// Done is closed once the load settles.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the load settles or ctx ends. It returns the load error,
// or ctx's error if it ended first.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
