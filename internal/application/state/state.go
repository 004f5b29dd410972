package state

// LoopState represents the lifecycle state of a frame loop
type LoopState int

const (
	LoopStopped LoopState = iota
	LoopRunning
)

// String returns the string representation of the loop state
func (s LoopState) String() string {
	switch s {
	case LoopStopped:
		return "Stopped"
	case LoopRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// LoadState represents the progress of an asynchronous scene load
type LoadState int

const (
	LoadPending LoadState = iota
	LoadLoading
	LoadLoaded
	LoadFailed
)

// String returns the string representation of the load state
func (s LoadState) String() string {
	switch s {
	case LoadPending:
		return "Pending"
	case LoadLoading:
		return "Loading"
	case LoadLoaded:
		return "Loaded"
	case LoadFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Settled reports whether the load has finished, successfully or not
func (s LoadState) Settled() bool {
	return s == LoadLoaded || s == LoadFailed
}
