package backdrop

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// Layer is one procedural element of the background. The scheduler owns every
// layer exclusively: Init once, Update then Draw each frame, Dispose at
// teardown.
type Layer interface {
	// Name identifies the layer in logs and errors.
	Name() string
	// Init allocates the layer's buffers. It is called once per mount.
	Init(cfg *Config) error
	// Update advances the layer's state from the frame input. On error the
	// previous state is kept.
	Update(ctx *FrameContext) error
	// Draw renders the layer onto dst.
	Draw(dst *ebiten.Image, v *View)
	// State returns the current transform and opacity.
	State() LayerState
	// Dispose releases the layer's images. Safe to call more than once.
	Dispose()
}

// View is everything a layer needs to project itself for one frame.
type View struct {
	Camera *Camera
	// Group is the floating group matrix wrapping every layer.
	Group mgl64.Mat4
	// Light is the total diffuse light reaching lit materials.
	Light float64
	// Elapsed is the frame time in seconds.
	Elapsed float64
}

// model returns Group * local.
func (v *View) model(s LayerState) mgl64.Mat4 {
	return v.Group.Mul4(s.Matrix())
}

// updateLayer runs l.Update, converting errors and panics into a *LayerError.
func updateLayer(l Layer, ctx *FrameContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &LayerError{Layer: l.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := l.Update(ctx); err != nil {
		return &LayerError{Layer: l.Name(), Err: err}
	}
	return nil
}

// commitState validates next and stores it in *cur. *cur is untouched when
// next is not finite.
func commitState(cur *LayerState, next LayerState) error {
	if err := next.validate(); err != nil {
		return err
	}
	*cur = next
	return nil
}

// layerRand returns a generator for one layer. The stream separates layers
// that share a seed.
func layerRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}
