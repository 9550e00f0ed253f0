package backdrop

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Background is one mounted instance: three layers, a bloom pipeline and the
// scheduler that drives them.
type Background struct {
	id  string
	cfg *Config
	log *slog.Logger

	stars     *StarField
	grid      *GridPlane
	particles *ParticleField
	tracker   *InputSignalTracker
	pipeline  *RenderPipeline
	scheduler *FrameScheduler
}

// Mount builds a background from cfg, subscribes it to input and starts its
// frame loop on refresh. A nil cfg uses DefaultConfig. A zero seed is
// replaced by a random one.
//
// Mount never panics: graphics failures come back wrapped in
// ErrContextUnavailable with a nil Background, and the host keeps running
// without a background.
func Mount(cfg *Config, input InputSource, refresh RefreshSource) (bg *Background, err error) {
	defer func() {
		if r := recover(); r != nil {
			bg = nil
			err = fmt.Errorf("%w: mount panic: %v", ErrContextUnavailable, r)
			slogger().Error("mount failed", "err", err)
		}
	}()

	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	for cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	b := &Background{
		id:        uuid.NewString(),
		cfg:       cfg,
		stars:     NewStarField(),
		grid:      NewGridPlane(),
		particles: NewParticleField(),
		tracker:   NewInputSignalTracker(),
	}
	b.log = slogger().With("mount", b.id)

	layers := b.Layers()
	for i, l := range layers {
		if err := l.Init(cfg); err != nil {
			for _, done := range layers[:i] {
				done.Dispose()
			}
			return nil, fmt.Errorf("init %s: %w", l.Name(), err)
		}
	}

	camera := NewCamera(cfg.Camera)
	group := NewFloatGroup(cfg.Float, layerRand(cfg.Seed, 4))
	// Draw order follows the scene: plane behind, then stars, then particles.
	base, err := NewBaseRenderPass(cfg, camera, group, b.grid, b.stars, b.particles)
	if err != nil {
		disposeAll(layers)
		return nil, err
	}
	bloom, err := NewBloomPass(cfg.Bloom)
	if err != nil {
		disposeAll(layers)
		return nil, err
	}
	b.pipeline = NewRenderPipeline(base, bloom)

	b.tracker.Attach(input)
	b.scheduler = NewFrameScheduler(refresh, b.tracker, b.pipeline, layers, b.log)
	b.scheduler.SetDebug(cfg.Debug)
	b.scheduler.Start()

	b.log.Info("mounted",
		"seed", cfg.Seed,
		"stars", b.stars.Len(),
		"particles", len(b.particles.Buffer()),
		"bloom", cfg.Bloom.Enabled,
	)
	return b, nil
}

func disposeAll(layers []Layer) {
	for _, l := range layers {
		l.Dispose()
	}
}

// Unmount tears the background down. Safe to call more than once.
func (b *Background) Unmount() {
	if b == nil || b.scheduler.Stopped() {
		return
	}
	b.scheduler.Teardown()
	b.log.Info("unmounted", "frames", b.scheduler.Frame())
}

// ID returns the mount's unique id, as used in its log lines.
func (b *Background) ID() string { return b.id }

// Config returns the resolved config, including the chosen seed.
func (b *Background) Config() *Config { return b.cfg }

// Layers returns the layers in update order: stars, grid, particles.
func (b *Background) Layers() []Layer {
	return []Layer{b.stars, b.grid, b.particles}
}

// Tracker returns the input tracker.
func (b *Background) Tracker() *InputSignalTracker { return b.tracker }

// Pipeline returns the render pipeline.
func (b *Background) Pipeline() *RenderPipeline { return b.pipeline }

// Scheduler returns the frame scheduler.
func (b *Background) Scheduler() *FrameScheduler { return b.scheduler }
