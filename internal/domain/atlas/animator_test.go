package atlas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnimator_AdvancesEveryFrameTime(t *testing.T) {
	a := NewAnimator(100 * time.Millisecond)

	assert.Equal(t, 0, a.Step(60*time.Millisecond, 4))
	assert.Equal(t, 1, a.Step(60*time.Millisecond, 4))
	assert.Equal(t, 1, a.Step(60*time.Millisecond, 4))
	assert.Equal(t, 2, a.Step(30*time.Millisecond, 4))
}

func TestAnimator_WrapsAtCount(t *testing.T) {
	a := NewAnimator(10 * time.Millisecond)

	var got []int
	for i := 0; i < 6; i++ {
		got = append(got, a.Step(10*time.Millisecond, 3))
	}
	assert.Equal(t, []int{1, 2, 0, 1, 2, 0}, got)
}

func TestAnimator_LargeDeltaSkipsFrames(t *testing.T) {
	a := NewAnimator(10 * time.Millisecond)
	assert.Equal(t, 3, a.Step(35*time.Millisecond, 9))
	assert.Equal(t, 4, a.Step(5*time.Millisecond, 9))
}

func TestAnimator_CountBelowOne(t *testing.T) {
	a := NewAnimator(time.Millisecond)
	assert.Equal(t, 0, a.Step(time.Second, 0))
	assert.Equal(t, 0, a.Index())
}

func TestAnimator_Defaults(t *testing.T) {
	a := NewAnimator(0)
	assert.Equal(t, DefaultFrameTime, a.FrameTime)

	a.Step(250*time.Millisecond, 10)
	assert.Equal(t, 2, a.Index())
	a.Reset()
	assert.Equal(t, 0, a.Index())
	assert.Equal(t, 1, a.Step(50*time.Millisecond+50*time.Millisecond, 10))
}
