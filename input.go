package backdrop

// EventType identifies a kind of input event.
type EventType uint8

const (
	EventPointerMove EventType = iota // pointer moved, pixel coordinates
	EventScroll                       // page scroll offset changed
	EventResize                       // viewport size changed
)

// PointerEvent carries a pointer position in viewport pixels.
type PointerEvent struct {
	X, Y float64
}

// ScrollEvent carries the page scroll state the host observed.
type ScrollEvent struct {
	Offset         float64
	DocumentHeight float64
	ViewportHeight float64
}

// ResizeEvent carries the new viewport size.
type ResizeEvent struct {
	Viewport Viewport
}

// InputSource is the host collaborator the InputSignalTracker subscribes to.
// Handlers run synchronously on the game goroutine.
type InputSource interface {
	OnPointerMove(fn func(PointerEvent)) CallbackHandle
	OnScroll(fn func(ScrollEvent)) CallbackHandle
	OnResize(fn func(ResizeEvent)) CallbackHandle
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerEvent)
}

type scrollHandler struct {
	id uint32
	fn func(ScrollEvent)
}

type resizeHandler struct {
	id uint32
	fn func(ResizeEvent)
}

type handlerRegistry struct {
	pointerMove []pointerHandler
	scroll      []scrollHandler
	resize      []resizeHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice,
// or removing a zero handle, is a no-op. It is safe to call from inside a
// callback; an emit already in progress finishes with the handlers it
// started with.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerMove:
		h.reg.pointerMove = removeHandler(h.reg.pointerMove, func(p pointerHandler) bool { return p.id == h.id })
	case EventScroll:
		h.reg.scroll = removeHandler(h.reg.scroll, func(p scrollHandler) bool { return p.id == h.id })
	case EventResize:
		h.reg.resize = removeHandler(h.reg.resize, func(p resizeHandler) bool { return p.id == h.id })
	}
}

// removeHandler returns s without its first match. The result never shares
// a backing array with s, so an emit ranging over s still sees every handler
// it started with.
func removeHandler[T any](s []T, match func(T) bool) []T {
	for i := range s {
		if match(s[i]) {
			out := make([]T, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	return s
}

// EventHub is an in-memory InputSource. Hosts embed it and call the Emit
// methods; tests use it directly.
type EventHub struct {
	handlers handlerRegistry
}

// NewEventHub returns an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{}
}

// OnPointerMove registers a callback for pointer move events.
func (h *EventHub) OnPointerMove(fn func(PointerEvent)) CallbackHandle {
	h.handlers.nextID++
	id := h.handlers.nextID
	h.handlers.pointerMove = append(h.handlers.pointerMove, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &h.handlers, event: EventPointerMove}
}

// OnScroll registers a callback for scroll events.
func (h *EventHub) OnScroll(fn func(ScrollEvent)) CallbackHandle {
	h.handlers.nextID++
	id := h.handlers.nextID
	h.handlers.scroll = append(h.handlers.scroll, scrollHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &h.handlers, event: EventScroll}
}

// OnResize registers a callback for viewport resize events.
func (h *EventHub) OnResize(fn func(ResizeEvent)) CallbackHandle {
	h.handlers.nextID++
	id := h.handlers.nextID
	h.handlers.resize = append(h.handlers.resize, resizeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &h.handlers, event: EventResize}
}

// EmitPointerMove delivers a pointer event to every registered callback.
func (h *EventHub) EmitPointerMove(e PointerEvent) {
	for _, p := range h.handlers.pointerMove {
		p.fn(e)
	}
}

// EmitScroll delivers a scroll event to every registered callback.
func (h *EventHub) EmitScroll(e ScrollEvent) {
	for _, p := range h.handlers.scroll {
		p.fn(e)
	}
}

// EmitResize delivers a resize event to every registered callback.
func (h *EventHub) EmitResize(e ResizeEvent) {
	for _, p := range h.handlers.resize {
		p.fn(e)
	}
}

// HandlerCount returns the number of live callbacks across all event types.
func (h *EventHub) HandlerCount() int {
	return len(h.handlers.pointerMove) + len(h.handlers.scroll) + len(h.handlers.resize)
}
