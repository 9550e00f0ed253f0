package backdrop

// PointerSignal is the cursor position relative to the viewport center,
// each axis in [-1, 1]. Y grows upward.
type PointerSignal struct {
	X, Y float64
}

// NormalizePointer maps pixel coordinates to a PointerSignal. Coordinates
// outside the viewport are clamped. An invalid viewport yields the center.
func NormalizePointer(px, py float64, vp Viewport) PointerSignal {
	if !vp.Valid() {
		return PointerSignal{}
	}
	x := px/float64(vp.Width)*2 - 1
	y := -(py/float64(vp.Height)*2 - 1)
	return PointerSignal{X: clamp(x, -1, 1), Y: clamp(y, -1, 1)}
}

// ScrollProgress maps a scroll offset to [0, 1]: 0 at the top, 1 at the
// bottom. Overscroll in either direction clamps. A document that fits in the
// viewport has no scrollable range and always reports 0.
func ScrollProgress(offset, documentHeight, viewportHeight float64) float64 {
	scrollable := documentHeight - viewportHeight
	if !(scrollable > 0) || !isFinite(offset) {
		return 0
	}
	return clamp01(offset / scrollable)
}

// FrameInput is the settled input state read once per frame.
type FrameInput struct {
	Pointer  PointerSignal
	Scroll   float64
	Viewport Viewport
}
