package backdrop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// defaultDocumentViewports is the virtual page height, in viewports, used
// when InputConfig.DocumentHeight is zero.
const defaultDocumentViewports = 5

// EbitenInput is the InputSource of a desktop host. It polls ebiten once per
// Update and turns the cursor, wheel and navigation keys into pointer and
// scroll events over a virtual page.
type EbitenInput struct {
	*EventHub

	wheelStep float64
	docHeight float64 // configured; zero follows the viewport

	viewport    Viewport
	offset      float64
	cursorX     int
	cursorY     int
	hasCursor   bool
	injectQueue []syntheticEvent
}

// NewEbitenInput creates an input source with no viewport yet.
func NewEbitenInput(cfg InputConfig) *EbitenInput {
	step := cfg.WheelStep
	if step <= 0 {
		step = 40
	}
	return &EbitenInput{
		EventHub:  NewEventHub(),
		wheelStep: step,
		docHeight: cfg.DocumentHeight,
	}
}

// SetViewport records the layout size. A change emits a resize and a scroll
// event, since the scrollable range depends on the viewport height.
func (in *EbitenInput) SetViewport(vp Viewport) {
	if vp == in.viewport || !vp.Valid() {
		return
	}
	in.viewport = vp
	in.EmitResize(ResizeEvent{Viewport: vp})
	in.ScrollTo(in.offset)
}

// Viewport returns the last layout size.
func (in *EbitenInput) Viewport() Viewport { return in.viewport }

// DocumentHeight returns the virtual page height in pixels.
func (in *EbitenInput) DocumentHeight() float64 {
	if in.docHeight > 0 {
		return in.docHeight
	}
	return float64(in.viewport.Height) * defaultDocumentViewports
}

// maxOffset is the largest scroll offset that keeps the viewport on the page.
func (in *EbitenInput) maxOffset() float64 {
	return max(in.DocumentHeight()-float64(in.viewport.Height), 0)
}

// ScrollOffset returns the current scroll offset in pixels.
func (in *EbitenInput) ScrollOffset() float64 { return in.offset }

// ScrollTo moves the page to offset, clamped to the document, and emits a
// scroll event.
func (in *EbitenInput) ScrollTo(offset float64) {
	if !isFinite(offset) {
		return
	}
	in.offset = clamp(offset, 0, in.maxOffset())
	in.EmitScroll(ScrollEvent{
		Offset:         in.offset,
		DocumentHeight: in.DocumentHeight(),
		ViewportHeight: float64(in.viewport.Height),
	})
}

// ScrollBy moves the page by delta pixels.
func (in *EbitenInput) ScrollBy(delta float64) {
	in.ScrollTo(in.offset + delta)
}

// MovePointer emits a pointer event at viewport pixel (x, y).
func (in *EbitenInput) MovePointer(x, y float64) {
	in.EmitPointerMove(PointerEvent{X: x, Y: y})
}

// Poll reads ebiten input. Call once per Game.Update. A queued synthetic
// event takes the frame and real input is skipped.
func (in *EbitenInput) Poll() {
	if in.processInjected() {
		return
	}

	x, y := ebiten.CursorPosition()
	if !in.hasCursor || x != in.cursorX || y != in.cursorY {
		in.cursorX, in.cursorY, in.hasCursor = x, y, true
		in.MovePointer(float64(x), float64(y))
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		in.ScrollBy(-dy * in.wheelStep)
	}

	page := float64(in.viewport.Height) * 0.9
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		in.ScrollTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		in.ScrollTo(in.maxOffset())
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		in.ScrollBy(page)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		in.ScrollBy(-page)
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		in.ScrollBy(in.wheelStep / 4)
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		in.ScrollBy(-in.wheelStep / 4)
	}
}
