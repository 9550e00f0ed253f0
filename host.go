package backdrop

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// Host is an ebiten.Game that keeps one background mounted behind optional
// overlays. Each Draw fires the display link onto an offscreen layer and
// composites that layer through the current Transition.
type Host struct {
	Input       *EbitenInput
	Link        *DisplayLink
	Screenshots *ScreenshotQueue
	FPS         *FPSOverlay

	// OnUpdate runs after input polling each tick. A non-nil error stops the
	// game.
	OnUpdate func() error
	// Overlay draws on top of the background, like page content would.
	Overlay func(screen *ebiten.Image)

	bg         *Background
	transition *Transition
	runner     *TestRunner
	layer      *ebiten.Image
	pool       targetPool
}

// NewHost creates a host with an empty viewport.
func NewHost(cfg InputConfig) *Host {
	return &Host{
		Input:      NewEbitenInput(cfg),
		Link:       NewDisplayLink(),
		transition: IdentityTransition(),
	}
}

// Mount replaces the current background with one built from cfg and resets
// scroll to the top. On failure the host keeps running with no background.
func (h *Host) Mount(cfg *Config) error {
	h.Unmount()
	h.Input.ScrollTo(0)
	bg, err := Mount(cfg, h.Input, h.Link)
	if err != nil {
		slogger().Error("background unavailable", "err", err)
		return err
	}
	h.bg = bg
	return nil
}

// Unmount tears down the current background, if any.
func (h *Host) Unmount() {
	if h.bg != nil {
		h.bg.Unmount()
		h.bg = nil
	}
}

// Background returns the mounted background or nil.
func (h *Host) Background() *Background { return h.bg }

// SetTransition sets how the background layer is composited. nil restores the
// identity transition.
func (h *Host) SetTransition(t *Transition) {
	if h.transition != nil && h.transition != t {
		h.transition.Dispose()
	}
	if t == nil {
		t = IdentityTransition()
	}
	h.transition = t
}

// Transition returns the active transition.
func (h *Host) Transition() *Transition { return h.transition }

// SetTestRunner attaches a scripted input runner, stepped before each poll.
func (h *Host) SetTestRunner(r *TestRunner) { h.runner = r }

// ErrScriptDone is returned from Update once an attached test runner has
// finished, ending the game loop.
var ErrScriptDone = errors.New("backdrop: test script finished")

// Update implements ebiten.Game.
func (h *Host) Update() error {
	if h.runner != nil {
		h.runner.step(h.Input, h.Screenshots)
	}
	h.Input.Poll()
	dt := 1 / float64(ebiten.TPS())
	h.transition.Update(float32(dt))
	if h.FPS != nil {
		h.FPS.Update(dt)
	}
	if h.OnUpdate != nil {
		if err := h.OnUpdate(); err != nil {
			return err
		}
	}
	if h.runner != nil && h.runner.Done() && (h.Screenshots == nil || h.Screenshots.Pending() == 0) {
		return ErrScriptDone
	}
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	if h.layer == nil || h.layer.Bounds().Dx() != b.Dx() || h.layer.Bounds().Dy() != b.Dy() {
		h.pool.Release(h.layer)
		h.layer = h.pool.Acquire(b.Dx(), b.Dy())
		h.pool.Dispose()
	} else {
		h.layer.Clear()
	}

	if h.Link.Fire(h.layer) > 0 {
		h.transition.Apply(h.layer, screen)
	}
	if h.Overlay != nil {
		h.Overlay(screen)
	}
	if h.Screenshots != nil {
		h.Screenshots.Flush(screen)
	}
	if h.FPS != nil {
		h.FPS.Draw(screen)
	}
}

// Layout implements ebiten.Game. The screen follows the window size.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.Input.SetViewport(Viewport{Width: outsideWidth, Height: outsideHeight})
	return outsideWidth, outsideHeight
}

// Close unmounts the background and frees the host's images.
func (h *Host) Close() {
	h.Unmount()
	h.transition.Dispose()
	h.pool.Release(h.layer)
	h.layer = nil
	h.pool.Dispose()
}

// RunConfig configures Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// Run opens a resizable window showing one background built from cfg and
// blocks until the window closes. A nil cfg uses DefaultConfig.
func Run(cfg *Config, rc RunConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	h := NewHost(cfg.Input)
	defer h.Close()
	if rc.ShowFPS {
		h.FPS = NewFPSOverlay()
	}
	_ = h.Mount(cfg)

	ebiten.SetWindowTitle(rc.Title)
	ebiten.SetWindowSize(rc.Width, rc.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(h)
}
