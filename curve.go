package backdrop

import (
	"fmt"
	"math"
)

// ControlPoint is one (input, output) pair of a Curve.
type ControlPoint struct {
	In  float64 `yaml:"in"`
	Out float64 `yaml:"out"`
}

// Curve is a piecewise-linear mapping from one continuous input to one
// continuous output. Outputs may rise and fall; inputs are strictly
// increasing. A Curve is immutable once built and safe to share between
// layers.
type Curve struct {
	points []ControlPoint
}

// NewCurve validates and copies the given control points.
func NewCurve(points ...ControlPoint) (Curve, error) {
	if len(points) == 0 {
		return Curve{}, fmt.Errorf("%w: no control points", ErrInvalidCurve)
	}
	for i, p := range points {
		if !isFinite(p.In) || !isFinite(p.Out) {
			return Curve{}, fmt.Errorf("%w: point %d is not finite", ErrInvalidCurve, i)
		}
		if i > 0 && p.In <= points[i-1].In {
			return Curve{}, fmt.Errorf("%w: input %g at point %d does not increase", ErrInvalidCurve, p.In, i)
		}
	}
	cp := make([]ControlPoint, len(points))
	copy(cp, points)
	return Curve{points: cp}, nil
}

// MustCurve is like NewCurve but panics on invalid points. Intended for
// package-level literals.
func MustCurve(points ...ControlPoint) Curve {
	c, err := NewCurve(points...)
	if err != nil {
		panic(err)
	}
	return c
}

// Interpolate clamps x to the curve's domain, finds the bracketing pair of
// control points and returns the linear interpolation between them. A zero
// Curve returns 0.
func (c Curve) Interpolate(x float64) float64 {
	n := len(c.points)
	if n == 0 {
		return 0
	}
	first, last := c.points[0], c.points[n-1]
	if x <= first.In || n == 1 || math.IsNaN(x) {
		return first.Out
	}
	if x >= last.In {
		return last.Out
	}
	for i := 1; i < n; i++ {
		hi := c.points[i]
		if x > hi.In {
			continue
		}
		lo := c.points[i-1]
		t := (x - lo.In) / (hi.In - lo.In)
		return lerp(lo.Out, hi.Out, t)
	}
	return last.Out
}

// Domain returns the smallest and largest control-point inputs.
func (c Curve) Domain() (lo, hi float64) {
	if len(c.points) == 0 {
		return 0, 0
	}
	return c.points[0].In, c.points[len(c.points)-1].In
}

// Points returns a copy of the control points.
func (c Curve) Points() []ControlPoint {
	cp := make([]ControlPoint, len(c.points))
	copy(cp, c.points)
	return cp
}

// Len returns the number of control points.
func (c Curve) Len() int { return len(c.points) }
