// Package ecs provides ECS adapters for backdrop.
package ecs

import (
	"github.com/phanxgames/backdrop"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InputEvent is one raw event seen on the bridged input source. Only the
// field matching Type is set.
type InputEvent struct {
	Type    backdrop.EventType
	Pointer backdrop.PointerEvent
	Scroll  backdrop.ScrollEvent
	Resize  backdrop.ResizeEvent
}

// InputEventType is the Donburi event type for raw input events.
var InputEventType = events.NewEventType[InputEvent]()

// SignalEventType is the Donburi event type for the normalized signal state,
// published after every raw event.
var SignalEventType = events.NewEventType[backdrop.FrameInput]()

// DonburiBridge forwards an InputSource into a Donburi world. Events are
// queued; systems receive them on ProcessEvents.
type DonburiBridge struct {
	world   donburi.World
	tracker *backdrop.InputSignalTracker
	subs    []backdrop.CallbackHandle
}

// NewDonburiBridge subscribes to src and starts publishing into world.
func NewDonburiBridge(world donburi.World, src backdrop.InputSource) *DonburiBridge {
	b := &DonburiBridge{world: world, tracker: backdrop.NewInputSignalTracker()}
	// The tracker subscribes first so its state is settled when the bridge's
	// own handlers publish.
	b.tracker.Attach(src)
	b.subs = append(b.subs,
		src.OnResize(func(e backdrop.ResizeEvent) {
			b.publish(InputEvent{Type: backdrop.EventResize, Resize: e})
		}),
		src.OnPointerMove(func(e backdrop.PointerEvent) {
			b.publish(InputEvent{Type: backdrop.EventPointerMove, Pointer: e})
		}),
		src.OnScroll(func(e backdrop.ScrollEvent) {
			b.publish(InputEvent{Type: backdrop.EventScroll, Scroll: e})
		}),
	)
	return b
}

func (b *DonburiBridge) publish(e InputEvent) {
	InputEventType.Publish(b.world, e)
	SignalEventType.Publish(b.world, b.tracker.Snapshot())
}

// Signal returns the latest normalized state without waiting for events to
// be processed.
func (b *DonburiBridge) Signal() backdrop.FrameInput {
	return b.tracker.Snapshot()
}

// Close unsubscribes from the input source. Events already queued are still
// delivered. Safe to call more than once.
func (b *DonburiBridge) Close() {
	for _, h := range b.subs {
		h.Remove()
	}
	b.subs = b.subs[:0]
	b.tracker.Detach()
}
