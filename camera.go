package backdrop

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera on the +Z axis looking at the origin.
// View and projection are recomputed lazily when the viewport or any field
// changes through a setter.
type Camera struct {
	fov      float64 // vertical, degrees
	z        float64
	near     float64
	far      float64
	viewport Viewport

	viewProj mgl64.Mat4
	dirty    bool
}

// NewCamera creates a camera from cfg with an empty viewport.
func NewCamera(cfg CameraConfig) *Camera {
	return &Camera{
		fov:   cfg.FOV,
		z:     cfg.Z,
		near:  cfg.Near,
		far:   cfg.Far,
		dirty: true,
	}
}

// SetViewport updates the aspect ratio and pixel mapping.
func (c *Camera) SetViewport(vp Viewport) {
	if vp == c.viewport {
		return
	}
	c.viewport = vp
	c.dirty = true
}

// Viewport returns the current viewport.
func (c *Camera) Viewport() Viewport { return c.viewport }

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	if c.dirty {
		view := mgl64.LookAtV(
			mgl64.Vec3{0, 0, c.z},
			mgl64.Vec3{0, 0, 0},
			mgl64.Vec3{0, 1, 0},
		)
		proj := mgl64.Perspective(mgl64.DegToRad(c.fov), c.viewport.Aspect(), c.near, c.far)
		c.viewProj = proj.Mul4(view)
		c.dirty = false
	}
	return c.viewProj
}

// Project maps a world-space point to viewport pixels. depth is the distance
// along the view axis. ok is false for points behind the near plane or beyond
// the far plane.
func (c *Camera) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	w := clip[3]
	if w < c.near || w > c.far {
		return 0, 0, w, false
	}
	return c.toScreen(clip), c.toScreenY(clip), w, true
}

func (c *Camera) toScreen(clip mgl64.Vec4) float64 {
	return (clip[0]/clip[3] + 1) * 0.5 * float64(c.viewport.Width)
}

func (c *Camera) toScreenY(clip mgl64.Vec4) float64 {
	return (1 - clip[1]/clip[3]) * 0.5 * float64(c.viewport.Height)
}

// ProjectSegment projects a world-space segment, clipping it against the near
// plane first. ok is false when the whole segment is behind the camera.
func (c *Camera) ProjectSegment(a, b mgl64.Vec3) (x0, y0, x1, y1 float64, ok bool) {
	vp := c.ViewProjection()
	ca := vp.Mul4x1(a.Vec4(1))
	cb := vp.Mul4x1(b.Vec4(1))
	inA, inB := ca[3] >= c.near, cb[3] >= c.near
	switch {
	case !inA && !inB:
		return 0, 0, 0, 0, false
	case !inA:
		ca = clipToNear(cb, ca, c.near)
	case !inB:
		cb = clipToNear(ca, cb, c.near)
	}
	return c.toScreen(ca), c.toScreenY(ca), c.toScreen(cb), c.toScreenY(cb), true
}

// clipToNear moves out along in->out until w reaches near.
func clipToNear(in, out mgl64.Vec4, near float64) mgl64.Vec4 {
	t := (in[3] - near) / (in[3] - out[3])
	return in.Add(out.Sub(in).Mul(t))
}

// PixelsPerUnit returns the point-size attenuation scale: half the viewport
// height, so a size-1 point at depth 1 covers that many pixels.
func (c *Camera) PixelsPerUnit() float64 {
	return float64(c.viewport.Height) * 0.5
}

// FocalLength returns the projection's y scale in pixels.
func (c *Camera) FocalLength() float64 {
	return c.PixelsPerUnit() / math.Tan(mgl64.DegToRad(c.fov)/2)
}
