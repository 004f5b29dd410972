// Package loop implements the frame-loop scheduler.
//
// A Scheduler asks its FrameSource for one frame at a time. Each callback
// computes the time since the previous frame and notifies every update
// subscriber with it, then requests the next frame. The very first frame
// after Start only records its timestamp.
package loop

import (
	"errors"
	"log/slog"
	"time"

	"github.com/younwookim/sprite2d/internal/application/state"
	"github.com/younwookim/sprite2d/internal/application/subscriber"
	"github.com/younwookim/sprite2d/internal/logging"
)

// ErrAlreadyRunning is returned by Start on a running scheduler.
var ErrAlreadyRunning = errors.New("loop: scheduler already running")

// UpdateFunc receives the time elapsed since the previous frame.
type UpdateFunc func(dt time.Duration) error

// FrameTick describes one processed frame.
type FrameTick struct {
	Timestamp time.Duration
	Delta     time.Duration
	// First is set on the first frame after Start; no update is sent for it.
	First bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger. Defaults to logging.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.log = l
	}
}

// Scheduler drives update subscribers from a FrameSource.
type Scheduler struct {
	src     FrameSource
	updates *subscriber.Registry[UpdateFunc]
	log     *slog.Logger

	state   state.LoopState
	gen     uint64 // bumped on Start/Stop so stale callbacks are dropped
	pending FrameID
	prev    time.Duration
	hasPrev bool
	last    FrameTick
	frames  uint64
	err     error
}

// NewScheduler creates a stopped scheduler on src.
func NewScheduler(src FrameSource, opts ...Option) *Scheduler {
	s := &Scheduler{
		src:     src,
		updates: subscriber.New[UpdateFunc](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.Or(s.log)
	return s
}

// Updates returns the handle update subscribers register with.
func (s *Scheduler) Updates() subscriber.Subscriber[UpdateFunc] {
	return s.updates
}

// State returns the current lifecycle state.
func (s *Scheduler) State() state.LoopState {
	return s.state
}

// Err returns the subscriber error that halted the loop, if any.
// It is reset by Start.
func (s *Scheduler) Err() error {
	return s.err
}

// Frames returns how many frames were processed since Start.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// LastTick returns the most recently processed frame.
func (s *Scheduler) LastTick() FrameTick {
	return s.last
}

// Start begins requesting frames. The previous timestamp is forgotten, so
// the first frame after Start never notifies.
func (s *Scheduler) Start() error {
	if s.state == state.LoopRunning {
		return ErrAlreadyRunning
	}
	s.gen++
	s.state = state.LoopRunning
	s.hasPrev = false
	s.prev = 0
	s.last = FrameTick{}
	s.frames = 0
	s.err = nil
	s.request()
	s.log.Debug("loop: started")
	return nil
}

// Stop cancels the pending frame request. No update is delivered after Stop
// returns. Stopping a stopped scheduler does nothing.
func (s *Scheduler) Stop() {
	if s.state != state.LoopRunning {
		return
	}
	s.gen++
	s.state = state.LoopStopped
	if s.pending != 0 {
		s.src.CancelFrame(s.pending)
		s.pending = 0
	}
	s.log.Debug("loop: stopped", "frames", s.frames)
}

func (s *Scheduler) request() {
	gen := s.gen
	s.pending = s.src.RequestFrame(func(ts time.Duration) error {
		return s.tick(gen, ts)
	})
}

func (s *Scheduler) tick(gen uint64, ts time.Duration) error {
	if s.state != state.LoopRunning || gen != s.gen {
		return nil
	}
	s.pending = 0

	tick := FrameTick{Timestamp: ts, First: !s.hasPrev}
	if s.hasPrev {
		tick.Delta = max(ts-s.prev, 0)
		err := s.updates.Notify(func(fn UpdateFunc) error {
			return fn(tick.Delta)
		})
		if err != nil {
			s.halt(err)
			return err
		}
	}

	// A subscriber may have stopped or restarted the loop.
	if s.state != state.LoopRunning || gen != s.gen {
		return nil
	}

	s.prev = ts
	s.hasPrev = true
	s.last = tick
	s.frames++
	s.request()
	return nil
}

func (s *Scheduler) halt(err error) {
	s.gen++
	s.state = state.LoopStopped
	s.err = err
	s.log.Error("loop: halted by update subscriber", "err", err, "frames", s.frames)
}
