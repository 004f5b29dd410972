package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/sprite2d/internal/application/loop"
)

// Replayer plays recorded timestamps back through a loop.ManualSource
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}

	return &data, nil
}

// Next returns the timestamp of the current frame and advances
func (r *Replayer) Next() (time.Duration, bool) {
	if r.frame >= len(r.data.Frames) {
		return 0, false
	}
	ts := r.data.Frames[r.frame].Timestamp()
	r.frame++
	return ts, true
}

// Step fires src with the next recorded timestamp. It reports false once the
// recording is exhausted.
func (r *Replayer) Step(src *loop.ManualSource) (bool, error) {
	ts, ok := r.Next()
	if !ok {
		return false, nil
	}
	return true, src.Advance(ts)
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Scene returns the manifest the session was recorded with
func (r *Replayer) Scene() string {
	return r.data.Scene
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// Uniform creates replay data with frames evenly spaced by step, starting at 0
func Uniform(frames int, step time.Duration) ReplayData {
	data := ReplayData{
		Version:   Version,
		StartTime: time.Now().Format(time.RFC3339),
		Frames:    make([]FrameStamp, frames),
	}

	for i := 0; i < frames; i++ {
		data.Frames[i] = FrameStamp{
			F:  i,
			US: (time.Duration(i) * step).Microseconds(),
		}
	}

	return data
}
