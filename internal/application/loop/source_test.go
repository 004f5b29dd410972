package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualSource_AdvanceRunsQueuedRequests(t *testing.T) {
	m := NewManualSource()
	var got []time.Duration
	m.RequestFrame(func(ts time.Duration) error {
		got = append(got, ts)
		return nil
	})
	m.RequestFrame(func(ts time.Duration) error {
		got = append(got, ts+1)
		return nil
	})

	require.NoError(t, m.Advance(10))
	assert.Equal(t, []time.Duration{10, 11}, got)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, time.Duration(10), m.Now())
}

func TestManualSource_RequestDuringAdvanceDeferred(t *testing.T) {
	m := NewManualSource()
	calls := 0
	var fn FrameFunc
	fn = func(time.Duration) error {
		calls++
		m.RequestFrame(fn)
		return nil
	}
	m.RequestFrame(fn)

	require.NoError(t, m.Step(time.Millisecond))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, m.Pending())

	require.NoError(t, m.Step(time.Millisecond))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2*time.Millisecond, m.Now())
}

func TestManualSource_Cancel(t *testing.T) {
	m := NewManualSource()
	called := false
	id := m.RequestFrame(func(time.Duration) error {
		called = true
		return nil
	})
	assert.NotZero(t, id)

	m.CancelFrame(id)
	m.CancelFrame(id)
	m.CancelFrame(999)

	require.NoError(t, m.Advance(1))
	assert.False(t, called)
}

func TestManualSource_ErrorsJoined(t *testing.T) {
	m := NewManualSource()
	ran := 0
	m.RequestFrame(func(time.Duration) error { ran++; return assert.AnError })
	m.RequestFrame(func(time.Duration) error { ran++; return nil })

	err := m.Advance(1)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 2, ran)
}
