package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/sprite2d/internal/application/loop"
)

// Recorder is a loop.FrameSource that records the timestamp of every frame
// the wrapped source fires.
type Recorder struct {
	src       loop.FrameSource
	data      ReplayData
	recording bool
	last      time.Duration
	seen      bool
}

var _ loop.FrameSource = (*Recorder)(nil)

// NewRecorder wraps src
func NewRecorder(src loop.FrameSource, scene string) *Recorder {
	return &Recorder{
		src: src,
		data: ReplayData{
			Version:   Version,
			Scene:     scene,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameStamp, 0, 3600), // Pre-allocate for ~1 minute at 60fps
		},
		recording: true,
	}
}

// RequestFrame forwards to the wrapped source, recording ts before fn runs.
// Several requests firing with the same timestamp are recorded once.
func (r *Recorder) RequestFrame(fn loop.FrameFunc) loop.FrameID {
	return r.src.RequestFrame(func(ts time.Duration) error {
		r.record(ts)
		return fn(ts)
	})
}

// CancelFrame forwards to the wrapped source
func (r *Recorder) CancelFrame(id loop.FrameID) {
	r.src.CancelFrame(id)
}

func (r *Recorder) record(ts time.Duration) {
	if !r.recording || (r.seen && ts == r.last) {
		return
	}
	r.data.Frames = append(r.data.Frames, FrameStamp{
		F:  len(r.data.Frames),
		US: ts.Microseconds(),
	})
	r.last = ts
	r.seen = true
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// Data returns the recorded data
func (r *Recorder) Data() ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
