package backdrop

import "testing"

func TestEventHubDelivery(t *testing.T) {
	hub := NewEventHub()
	var order []string
	hub.OnPointerMove(func(e PointerEvent) { order = append(order, "pointer") })
	hub.OnScroll(func(e ScrollEvent) { order = append(order, "scroll") })
	hub.OnResize(func(e ResizeEvent) { order = append(order, "resize") })

	hub.EmitResize(ResizeEvent{})
	hub.EmitPointerMove(PointerEvent{})
	hub.EmitScroll(ScrollEvent{})

	want := []string{"resize", "pointer", "scroll"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestEventHubRegistrationOrder(t *testing.T) {
	hub := NewEventHub()
	var got []int
	for i := 0; i < 3; i++ {
		hub.OnScroll(func(ScrollEvent) { got = append(got, i) })
	}
	hub.EmitScroll(ScrollEvent{})
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("callbacks ran as %v, want [0 1 2]", got)
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	hub := NewEventHub()
	var a, b int
	ha := hub.OnPointerMove(func(PointerEvent) { a++ })
	hub.OnPointerMove(func(PointerEvent) { b++ })

	ha.Remove()
	ha.Remove()
	hub.EmitPointerMove(PointerEvent{})

	if a != 0 || b != 1 {
		t.Errorf("a = %d, b = %d, want 0 and 1", a, b)
	}
	if hub.HandlerCount() != 1 {
		t.Errorf("HandlerCount = %d, want 1", hub.HandlerCount())
	}
}

func TestCallbackHandleZero(t *testing.T) {
	var h CallbackHandle
	h.Remove() // must not panic
}

func TestRemoveHandlerLeavesOriginal(t *testing.T) {
	x, y, z := new(int), new(int), new(int)
	backing := []*int{x, y, z}
	s := removeHandler(backing, func(p *int) bool { return p == x })
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	if s[0] != y || s[1] != z {
		t.Error("survivors not kept in order")
	}
	if backing[0] != x || backing[1] != y || backing[2] != z {
		t.Error("original slice was modified")
	}
}

func TestRemoveDuringEmit(t *testing.T) {
	hub := NewEventHub()
	var calls []string
	var ha CallbackHandle
	ha = hub.OnScroll(func(ScrollEvent) {
		calls = append(calls, "a")
		ha.Remove()
	})
	hub.OnScroll(func(ScrollEvent) { calls = append(calls, "b") })
	hub.OnScroll(func(ScrollEvent) { calls = append(calls, "c") })

	hub.EmitScroll(ScrollEvent{})
	hub.EmitScroll(ScrollEvent{})

	want := []string{"a", "b", "c", "b", "c"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
	if hub.HandlerCount() != 2 {
		t.Errorf("HandlerCount = %d, want 2", hub.HandlerCount())
	}
}

func TestRemoveEarlierHandlerDuringEmit(t *testing.T) {
	hub := NewEventHub()
	var a, b, c int
	ha := hub.OnPointerMove(func(PointerEvent) { a++ })
	hub.OnPointerMove(func(PointerEvent) {
		b++
		ha.Remove()
	})
	hub.OnPointerMove(func(PointerEvent) { c++ })

	hub.EmitPointerMove(PointerEvent{})
	if a != 1 || b != 1 || c != 1 {
		t.Errorf("first emit: a = %d, b = %d, c = %d, want 1 each", a, b, c)
	}
	hub.EmitPointerMove(PointerEvent{})
	if a != 1 || b != 2 || c != 2 {
		t.Errorf("second emit: a = %d, b = %d, c = %d, want 1, 2, 2", a, b, c)
	}
}

func TestDetachTrackerDuringEmit(t *testing.T) {
	hub := NewEventHub()
	tr := NewInputSignalTracker()
	tr.Attach(hub)
	after := 0
	hub.OnResize(func(ResizeEvent) { tr.Detach() })
	hub.OnResize(func(ResizeEvent) { after++ })

	hub.EmitResize(ResizeEvent{Viewport: Viewport{Width: 10, Height: 10}})
	if after != 1 {
		t.Errorf("handler after the detach ran %d times, want 1", after)
	}
	if tr.Subscriptions() != 0 {
		t.Errorf("Subscriptions = %d, want 0", tr.Subscriptions())
	}
	if hub.HandlerCount() != 2 {
		t.Errorf("HandlerCount = %d, want 2", hub.HandlerCount())
	}
}

func TestRemoveHandlerNoMatch(t *testing.T) {
	s := []int{1, 2, 3}
	s = removeHandler(s, func(v int) bool { return v == 9 })
	if len(s) != 3 {
		t.Errorf("len = %d, want 3", len(s))
	}
}
