package backdrop

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// Particle is one glowing point. Particles never move on their own; the
// field's transform animates them as a whole.
type Particle struct {
	Position Vec3
	Color    Color
	Size     float64
}

// ParticleBuffer is a fixed-length set of particles, generated once.
type ParticleBuffer []Particle

// NewParticleBuffer generates n particles with the default particle settings.
// Each call returns a new, independent buffer.
func NewParticleBuffer(n int, rng *rand.Rand) ParticleBuffer {
	cfg := DefaultConfig().Particles
	cfg.Count = n
	return GenerateParticles(cfg, rng)
}

// GenerateParticles fills a buffer of cfg.Count particles: positions uniform
// in a cube of side Extent centered on the origin, warm HSL colors with hue in
// [HueMin, HueMax], sizes uniform in [0, SizeMax].
func GenerateParticles(cfg ParticleConfig, rng *rand.Rand) ParticleBuffer {
	if cfg.Count <= 0 {
		return nil
	}
	buf := make(ParticleBuffer, cfg.Count)
	for i := range buf {
		buf[i] = Particle{
			Position: Vec3{
				X: (rng.Float64() - 0.5) * cfg.Extent,
				Y: (rng.Float64() - 0.5) * cfg.Extent,
				Z: (rng.Float64() - 0.5) * cfg.Extent,
			},
			Color: ColorFromHSL(lerp(cfg.HueMin, cfg.HueMax, rng.Float64()), cfg.Saturation, cfg.Lightness),
			Size:  rng.Float64() * cfg.SizeMax,
		}
	}
	return buf
}

// ParticleField is a slowly spinning cloud of additive points.
type ParticleField struct {
	cfg    ParticleConfig
	scale  Curve
	buffer ParticleBuffer
	state  LayerState
	batch  *pointBatch
	ready  bool
}

// NewParticleField returns an uninitialized ParticleField.
func NewParticleField() *ParticleField {
	return &ParticleField{state: defaultLayerState}
}

func (p *ParticleField) Name() string { return "particles" }

// Init generates the particle buffer. Every call allocates a fresh buffer.
func (p *ParticleField) Init(cfg *Config) error {
	p.cfg = cfg.Particles
	p.state = defaultLayerState
	p.buffer = nil
	p.ready = false
	if !p.cfg.Enabled {
		p.ready = true
		return nil
	}
	curves, err := cfg.curves()
	if err != nil {
		return err
	}
	p.scale = curves.scale
	p.buffer = GenerateParticles(p.cfg, layerRand(cfg.Seed, 3))
	p.batch = newPointBatch(len(p.buffer))
	p.state.Opacity = p.cfg.Opacity
	p.ready = true
	return nil
}

// Update spins the field over time, wobbles it around X and leans it toward
// the pointer. Scale follows scroll progress.
func (p *ParticleField) Update(ctx *FrameContext) error {
	if !p.ready {
		return ErrNotInitialized
	}
	if !p.cfg.Enabled {
		return nil
	}
	t := ctx.Elapsed
	next := p.state
	next.Rotation.Y = t*p.cfg.SpinSpeed + ctx.Pointer.X*p.cfg.PointerInfluence
	next.Rotation.X = math.Sin(t*p.cfg.WobbleSpeed)*p.cfg.WobbleAmount + ctx.Pointer.Y*p.cfg.PointerInfluence
	next.Scale = p.scale.Interpolate(ctx.Scroll)
	return commitState(&p.state, next)
}

// Draw renders each particle as a square point whose size attenuates with
// depth, blended additively.
func (p *ParticleField) Draw(dst *ebiten.Image, v *View) {
	if len(p.buffer) == 0 || v.Camera == nil {
		return
	}
	model := v.model(p.state)
	ppu := v.Camera.PixelsPerUnit()
	img := spriteImage(spriteSquare)

	p.batch.reset()
	for i := range p.buffer {
		pt := &p.buffer[i]
		x, y, depth, ok := v.Camera.Project(transformPoint(model, pt.Position))
		if !ok {
			continue
		}
		p.batch.add(x, y, p.cfg.MaterialSize*pt.Size*ppu/depth, pt.Color, p.state.Opacity, img)
	}
	p.batch.flush(dst, img, BlendAdd)
}

// State returns the current transform and opacity.
func (p *ParticleField) State() LayerState { return p.state }

// Buffer returns the particle buffer. Callers must not modify it.
func (p *ParticleField) Buffer() ParticleBuffer { return p.buffer }

// Dispose drops the particle buffer.
func (p *ParticleField) Dispose() {
	p.buffer = nil
	p.batch = nil
	p.ready = false
}
