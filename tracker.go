package backdrop

// InputSignalTracker turns raw pointer, scroll and resize events into the
// normalized state read once per frame. It has a single writer (its own
// handlers) and a single reader (the frame callback), both on the game
// goroutine, so it holds no locks.
type InputSignalTracker struct {
	pointer  PointerSignal
	scroll   float64
	viewport Viewport

	// last raw pointer, re-normalized when the viewport changes
	rawX, rawY float64
	hasRaw     bool

	subs []CallbackHandle
}

// NewInputSignalTracker returns a detached tracker with a centered pointer
// and zero scroll.
func NewInputSignalTracker() *InputSignalTracker {
	return &InputSignalTracker{}
}

// Attach subscribes to src for pointer, scroll and resize events. Attaching an
// already attached tracker first detaches it.
func (t *InputSignalTracker) Attach(src InputSource) {
	t.Detach()
	t.subs = append(t.subs,
		src.OnResize(t.handleResize),
		src.OnPointerMove(t.handlePointerMove),
		src.OnScroll(t.handleScroll),
	)
}

// Detach removes every subscription. Safe to call more than once.
func (t *InputSignalTracker) Detach() {
	for _, h := range t.subs {
		h.Remove()
	}
	t.subs = t.subs[:0]
}

// Subscriptions returns the number of live subscriptions.
func (t *InputSignalTracker) Subscriptions() int {
	return len(t.subs)
}

// SetViewport sets the viewport used to normalize pointer coordinates.
func (t *InputSignalTracker) SetViewport(vp Viewport) {
	t.handleResize(ResizeEvent{Viewport: vp})
}

// Snapshot returns the settled input for this frame.
func (t *InputSignalTracker) Snapshot() FrameInput {
	return FrameInput{Pointer: t.pointer, Scroll: t.scroll, Viewport: t.viewport}
}

func (t *InputSignalTracker) handleResize(e ResizeEvent) {
	if !e.Viewport.Valid() {
		return
	}
	t.viewport = e.Viewport
	if t.hasRaw {
		t.pointer = NormalizePointer(t.rawX, t.rawY, t.viewport)
	}
}

func (t *InputSignalTracker) handlePointerMove(e PointerEvent) {
	if !isFinite(e.X) || !isFinite(e.Y) {
		return
	}
	t.rawX, t.rawY, t.hasRaw = e.X, e.Y, true
	if !t.viewport.Valid() {
		return
	}
	t.pointer = NormalizePointer(e.X, e.Y, t.viewport)
}

func (t *InputSignalTracker) handleScroll(e ScrollEvent) {
	t.scroll = ScrollProgress(e.Offset, e.DocumentHeight, e.ViewportHeight)
}
