package backdrop

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// FloatGroup is the slow bobbing motion applied to the whole scene. Each
// mount picks a random phase so remounts do not restart from the same pose.
type FloatGroup struct {
	cfg    FloatConfig
	offset float64
}

// NewFloatGroup creates a group with a phase drawn from rng.
func NewFloatGroup(cfg FloatConfig, rng *rand.Rand) *FloatGroup {
	return &FloatGroup{cfg: cfg, offset: rng.Float64() * 10000}
}

// Transform returns the group pose at elapsed seconds.
func (g *FloatGroup) Transform(elapsed float64) Transform {
	if g == nil || !g.cfg.Enabled {
		return identityTransform
	}
	t := (g.offset + elapsed) / 4 * g.cfg.Speed
	ri := g.cfg.RotationIntensity
	return Transform{
		Rotation: Vec3{
			X: math.Cos(t) / 8 * ri,
			Y: math.Sin(t) / 8 * ri,
			Z: math.Sin(t) / 20 * ri,
		},
		Position: Vec3{Y: math.Sin(t) / 10 * g.cfg.FloatIntensity},
		Scale:    1,
	}
}

// Matrix returns the group matrix at elapsed seconds.
func (g *FloatGroup) Matrix(elapsed float64) mgl64.Mat4 {
	return g.Transform(elapsed).Matrix()
}
