package backdrop

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Pass is one stage of the RenderPipeline.
type Pass interface {
	Name() string
	// Resize reconfigures the pass for a new viewport.
	Resize(vp Viewport) error
	// Render draws into dst. src is the previous pass's output, nil for the
	// first pass.
	Render(ctx *FrameContext, src, dst *ebiten.Image)
	// Dispose releases the pass's images. Safe to call more than once.
	Dispose()
}

// poolUser is implemented by passes that draw intermediate targets from the
// pipeline's pool.
type poolUser interface {
	usePool(p *targetPool)
}

// PassHook observes each pass after it renders.
type PassHook func(index int, pass Pass, took time.Duration)

// RenderPipeline runs a base pass into an owned intermediate target, then a
// bloom pass from that target onto the screen. The order is fixed.
type RenderPipeline struct {
	passes   [2]Pass
	pool     targetPool
	target   *ebiten.Image
	viewport Viewport
	hook     PassHook
	timings  [2]time.Duration
	disposed bool
}

// NewRenderPipeline creates a pipeline running base then bloom.
func NewRenderPipeline(base, bloom Pass) *RenderPipeline {
	p := &RenderPipeline{passes: [2]Pass{base, bloom}}
	for _, pass := range p.passes {
		if u, ok := pass.(poolUser); ok {
			u.usePool(&p.pool)
		}
	}
	return p
}

// SetHook installs a hook called after every pass. nil removes it.
func (p *RenderPipeline) SetHook(h PassHook) { p.hook = h }

// Passes returns the passes in execution order.
func (p *RenderPipeline) Passes() []Pass { return p.passes[:] }

// Viewport returns the size the pipeline is configured for.
func (p *RenderPipeline) Viewport() Viewport { return p.viewport }

// Timings returns how long each pass took in the last Render.
func (p *RenderPipeline) Timings() [2]time.Duration { return p.timings }

// Resize reallocates the intermediate target and every pass for vp. Invalid
// sizes return ErrInvalidViewport and leave the pipeline as it was.
func (p *RenderPipeline) Resize(vp Viewport) error {
	if p.disposed {
		return ErrNotInitialized
	}
	if !vp.Valid() {
		return fmt.Errorf("resize %dx%d: %w", vp.Width, vp.Height, ErrInvalidViewport)
	}
	if vp == p.viewport && p.target != nil {
		return nil
	}
	p.pool.Release(p.target)
	p.target = p.pool.Acquire(vp.Width, vp.Height)
	for _, pass := range p.passes {
		if err := pass.Resize(vp); err != nil {
			return fmt.Errorf("resize %s: %w", pass.Name(), err)
		}
	}
	p.viewport = vp
	return nil
}

// Render runs every pass in order, ending on screen. It fails until a Resize
// has succeeded.
func (p *RenderPipeline) Render(ctx *FrameContext, screen *ebiten.Image) error {
	if p.disposed || !p.viewport.Valid() {
		return ErrNotInitialized
	}
	var src *ebiten.Image
	for i, pass := range p.passes {
		dst := screen
		if i < len(p.passes)-1 {
			dst = p.target
		}
		start := time.Now()
		pass.Render(ctx, src, dst)
		p.timings[i] = time.Since(start)
		if p.hook != nil {
			p.hook(i, pass, p.timings[i])
		}
		src = dst
	}
	return nil
}

// Outstanding returns the number of pooled targets currently held.
func (p *RenderPipeline) Outstanding() int { return p.pool.Outstanding() }

// Dispose releases the intermediate target and every pass's images, then
// deallocates the pool. Safe to call more than once.
func (p *RenderPipeline) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	for _, pass := range p.passes {
		pass.Dispose()
	}
	p.pool.Release(p.target)
	p.target = nil
	p.pool.Dispose()
	p.viewport = Viewport{}
}

// --- BaseRenderPass ---

// BaseRenderPass clears to the background color and draws every layer
// inside the floating group.
type BaseRenderPass struct {
	layers []Layer
	camera *Camera
	group  *FloatGroup
	clear  color.RGBA
	view   View
}

// NewBaseRenderPass creates the scene pass. layers are drawn in the order
// given.
func NewBaseRenderPass(cfg *Config, camera *Camera, group *FloatGroup, layers ...Layer) (*BaseRenderPass, error) {
	bg, err := ParseHexColor(cfg.ClearColor)
	if err != nil {
		return nil, err
	}
	return &BaseRenderPass{
		layers: layers,
		camera: camera,
		group:  group,
		clear:  bg.toRGBA(),
		view: View{
			Camera: camera,
			Light:  cfg.AmbientIntensity + cfg.EnvironmentIntensity,
		},
	}, nil
}

func (b *BaseRenderPass) Name() string { return "base" }

// Resize updates the camera's aspect ratio.
func (b *BaseRenderPass) Resize(vp Viewport) error {
	if !vp.Valid() {
		return ErrInvalidViewport
	}
	b.camera.SetViewport(vp)
	return nil
}

// Render draws the scene into dst. src is unused.
func (b *BaseRenderPass) Render(ctx *FrameContext, _, dst *ebiten.Image) {
	dst.Fill(b.clear)
	b.view.Elapsed = ctx.Elapsed
	b.view.Group = b.group.Matrix(ctx.Elapsed)
	for _, l := range b.layers {
		l.Draw(dst, &b.view)
	}
}

// Dispose is a no-op: the scheduler owns the layers.
func (b *BaseRenderPass) Dispose() {}
