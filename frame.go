package backdrop

// FrameContext is the per-frame input passed by pointer into every layer's
// Update. Layers must treat it as read-only.
type FrameContext struct {
	FrameInput

	// Elapsed is the time in seconds since the scheduler's first frame.
	Elapsed float64
	// Delta is the time in seconds since the previous frame.
	Delta float64
	// Frame counts ticks, starting at 1.
	Frame uint64
}
