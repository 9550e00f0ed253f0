package backdrop

type syntheticKind uint8

const (
	syntheticPointer syntheticKind = iota
	syntheticScrollBy
	syntheticScrollTo
)

// syntheticEvent represents a single injected input event. Pointer
// coordinates are viewport pixels, the same space real cursor input uses.
type syntheticEvent struct {
	kind   syntheticKind
	x, y   float64
	scroll float64
}

// InjectPointer queues a pointer move to (x, y). The event is consumed on the
// next Poll.
func (in *EbitenInput) InjectPointer(x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{kind: syntheticPointer, x: x, y: y})
}

// InjectPointerPath queues a pointer sweep from (fromX, fromY) to (toX, toY),
// linearly interpolated over frames events. Minimum frames is 2.
func (in *EbitenInput) InjectPointerPath(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		in.InjectPointer(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
}

// InjectScroll queues a relative scroll of delta pixels.
func (in *EbitenInput) InjectScroll(delta float64) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{kind: syntheticScrollBy, scroll: delta})
}

// InjectScrollTo queues an absolute scroll to offset pixels.
func (in *EbitenInput) InjectScrollTo(offset float64) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{kind: syntheticScrollTo, scroll: offset})
}

// Injected returns the number of queued synthetic events.
func (in *EbitenInput) Injected() int { return len(in.injectQueue) }

// processInjected pops one event from the inject queue and emits it.
// Returns true if an event was consumed (real input should be skipped).
func (in *EbitenInput) processInjected() bool {
	if len(in.injectQueue) == 0 {
		return false
	}
	evt := in.injectQueue[0]
	copy(in.injectQueue, in.injectQueue[1:])
	in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]

	switch evt.kind {
	case syntheticPointer:
		in.MovePointer(evt.x, evt.y)
	case syntheticScrollBy:
		in.ScrollBy(evt.scroll)
	case syntheticScrollTo:
		in.ScrollTo(evt.scroll)
	}
	return true
}
