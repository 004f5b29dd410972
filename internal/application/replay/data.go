// Package replay records the timestamps a frame source fires with and plays
// them back, so a session can be re-rendered frame for frame.
package replay

import "time"

// Version of the replay file format
const Version = "1.0"

// FrameStamp records one fired frame
type FrameStamp struct {
	F  int   `json:"f"`  // Frame number
	US int64 `json:"us"` // Timestamp in microseconds
}

// Timestamp returns the stamp as a duration
func (s FrameStamp) Timestamp() time.Duration {
	return time.Duration(s.US) * time.Microsecond
}

// ReplayData contains all data needed to replay a session
type ReplayData struct {
	Version   string       `json:"version"`
	Scene     string       `json:"scene"`
	StartTime string       `json:"startTime"`
	Frames    []FrameStamp `json:"frames"`
}
