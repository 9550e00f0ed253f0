package backdrop

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// Star is one point of the StarField.
type Star struct {
	Position Vec3
	Color    Color
	Size     float64
}

// GenerateStars places cfg.Count stars in a spherical shell. The radius walks
// down from Radius+Depth by random steps of at most Depth/Count, so stars
// spread through the shell with the outermost first. Hue follows the index.
func GenerateStars(cfg StarConfig, rng *rand.Rand) []Star {
	if cfg.Count <= 0 {
		return nil
	}
	stars := make([]Star, cfg.Count)
	r := cfg.Radius + cfg.Depth
	step := cfg.Depth / float64(cfg.Count)
	for i := range stars {
		r -= step * rng.Float64()
		phi := math.Acos(1 - 2*rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		sinPhi := math.Sin(phi)
		stars[i] = Star{
			Position: Vec3{
				X: r * sinPhi * math.Sin(theta),
				Y: r * math.Cos(phi),
				Z: r * sinPhi * math.Cos(theta),
			},
			Color: ColorFromHSL(float64(i)/float64(cfg.Count), cfg.Saturation, 0.9),
			Size:  (0.5 + 0.5*rng.Float64()) * cfg.Factor,
		}
	}
	return stars
}

// starSizeScale converts a star's size into pixels at depth 1.
const starSizeScale = 30

// StarField is a shell of twinkling stars that tilts toward the pointer.
type StarField struct {
	cfg   StarConfig
	stars []Star
	state LayerState
	batch *pointBatch
	ready bool
}

// NewStarField returns an uninitialized StarField.
func NewStarField() *StarField {
	return &StarField{state: defaultLayerState}
}

func (s *StarField) Name() string { return "stars" }

// Init generates the stars. A disabled field draws nothing.
func (s *StarField) Init(cfg *Config) error {
	s.cfg = cfg.Stars
	s.state = defaultLayerState
	s.ready = true
	if !s.cfg.Enabled {
		s.stars = nil
		return nil
	}
	s.stars = GenerateStars(s.cfg, layerRand(cfg.Seed, 1))
	s.batch = newPointBatch(len(s.stars))
	return nil
}

// Update tilts the field: rotation.x follows pointer.y, rotation.y follows
// pointer.x.
func (s *StarField) Update(ctx *FrameContext) error {
	if !s.ready {
		return ErrNotInitialized
	}
	next := s.state
	next.Rotation.X = ctx.Pointer.Y * s.cfg.PointerInfluence
	next.Rotation.Y = ctx.Pointer.X * s.cfg.PointerInfluence
	return commitState(&s.state, next)
}

// Draw projects every star and draws it additively. All stars pulse together
// with the field's twinkle phase.
func (s *StarField) Draw(dst *ebiten.Image, v *View) {
	if len(s.stars) == 0 || v.Camera == nil {
		return
	}
	model := v.model(s.state)
	pulse := 3 + math.Sin(v.Elapsed*s.cfg.Speed+100)
	shape := spriteSquare
	if s.cfg.Fade {
		shape = spriteFade
	}
	img := spriteImage(shape)

	s.batch.reset()
	for i := range s.stars {
		st := &s.stars[i]
		x, y, depth, ok := v.Camera.Project(transformPoint(model, st.Position))
		if !ok {
			continue
		}
		s.batch.add(x, y, st.Size*starSizeScale/depth*pulse, st.Color, s.state.Opacity, img)
	}
	s.batch.flush(dst, img, BlendAdd)
}

// State returns the current transform.
func (s *StarField) State() LayerState { return s.state }

// Len returns the number of stars.
func (s *StarField) Len() int { return len(s.stars) }

// Dispose drops the star buffer. The sprite images are shared and stay alive.
func (s *StarField) Dispose() {
	s.stars = nil
	s.batch = nil
	s.ready = false
}
