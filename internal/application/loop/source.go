package loop

import (
	"errors"
	"time"
)

// FrameID identifies a pending frame request. Zero is never issued.
type FrameID uint64

// FrameFunc is invoked by a FrameSource once per displayed frame with a
// monotonically increasing timestamp.
type FrameFunc func(ts time.Duration) error

// FrameSource is the host timing primitive: a one-shot per-frame callback
// that can be cancelled before it fires.
type FrameSource interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

type frameRequest struct {
	id FrameID
	fn FrameFunc
}

// ManualSource is a FrameSource advanced explicitly by its owner.
// Headless hosts and tests use it in place of a display refresh.
type ManualSource struct {
	now     time.Duration
	next    FrameID
	pending []frameRequest
}

var _ FrameSource = (*ManualSource)(nil)

// NewManualSource creates a source whose clock starts at zero.
func NewManualSource() *ManualSource {
	return &ManualSource{}
}

// RequestFrame queues fn for the next Advance.
func (m *ManualSource) RequestFrame(fn FrameFunc) FrameID {
	m.next++
	m.pending = append(m.pending, frameRequest{id: m.next, fn: fn})
	return m.next
}

// CancelFrame drops a queued request. Unknown ids are ignored.
func (m *ManualSource) CancelFrame(id FrameID) {
	for i, r := range m.pending {
		if r.id == id {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued requests.
func (m *ManualSource) Pending() int {
	return len(m.pending)
}

// Now returns the timestamp of the last Advance.
func (m *ManualSource) Now() time.Duration {
	return m.now
}

// Advance runs every request queued before the call with timestamp ts.
// Requests made while running are deferred to the next Advance. All queued
// callbacks run even if one fails; their errors are joined.
func (m *ManualSource) Advance(ts time.Duration) error {
	m.now = ts
	batch := m.pending
	m.pending = nil

	var errs []error
	for _, r := range batch {
		if err := r.fn(ts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Step advances the clock by d.
func (m *ManualSource) Step(d time.Duration) error {
	return m.Advance(m.now + d)
}
