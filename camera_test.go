package backdrop

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestCamera() *Camera {
	c := NewCamera(CameraConfig{FOV: 60, Z: 5, Near: 0.1, Far: 2000})
	c.SetViewport(Viewport{Width: 200, Height: 100})
	return c
}

func TestCameraProjectOrigin(t *testing.T) {
	c := newTestCamera()
	x, y, depth, ok := c.Project(mgl64.Vec3{0, 0, 0})
	if !ok {
		t.Fatal("origin not visible")
	}
	if !approx(x, 100, 1e-9) || !approx(y, 50, 1e-9) {
		t.Errorf("origin at (%v, %v), want (100, 50)", x, y)
	}
	if !approx(depth, 5, 1e-9) {
		t.Errorf("depth = %v, want 5", depth)
	}
}

func TestCameraProjectUnitUp(t *testing.T) {
	c := newTestCamera()
	_, y, _, ok := c.Project(mgl64.Vec3{0, 1, 0})
	if !ok {
		t.Fatal("point not visible")
	}
	// one world unit at depth 5 covers 50 / (5 * tan 30°) pixels
	want := 50 - 50/(5*math.Tan(math.Pi/6))
	if !approx(y, want, 1e-6) {
		t.Errorf("y = %v, want %v (up is toward the top)", y, want)
	}
}

func TestCameraProjectRejects(t *testing.T) {
	c := newTestCamera()
	if _, _, _, ok := c.Project(mgl64.Vec3{0, 0, 10}); ok {
		t.Error("point behind the camera reported visible")
	}
	if _, _, _, ok := c.Project(mgl64.Vec3{0, 0, -3000}); ok {
		t.Error("point beyond the far plane reported visible")
	}
}

func TestCameraProjectSegment(t *testing.T) {
	c := newTestCamera()

	x0, y0, x1, y1, ok := c.ProjectSegment(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0})
	if !ok {
		t.Fatal("visible segment rejected")
	}
	if !approx(y0, 50, 1e-9) || !approx(y1, 50, 1e-9) || x0 >= x1 {
		t.Errorf("segment = (%v,%v)-(%v,%v)", x0, y0, x1, y1)
	}

	// Crosses the near plane: the visible end stays put.
	ax, ay, _, _ := c.Project(mgl64.Vec3{1, 0, 0})
	x0, y0, _, _, ok = c.ProjectSegment(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 10})
	if !ok {
		t.Fatal("partly visible segment rejected")
	}
	if !approx(x0, ax, 1e-9) || !approx(y0, ay, 1e-9) {
		t.Errorf("visible end moved to (%v, %v), want (%v, %v)", x0, y0, ax, ay)
	}

	if _, _, _, _, ok := c.ProjectSegment(mgl64.Vec3{0, 0, 6}, mgl64.Vec3{0, 0, 9}); ok {
		t.Error("segment entirely behind the camera accepted")
	}
}

func TestClipToNear(t *testing.T) {
	in := mgl64.Vec4{0, 0, 0, 1}
	out := mgl64.Vec4{2, 0, 0, -1}
	got := clipToNear(in, out, 0.5)
	if !approx(got[3], 0.5, 1e-12) || !approx(got[0], 0.5, 1e-12) {
		t.Errorf("clipToNear = %v, want x=0.5 w=0.5", got)
	}
}

func TestCameraPixelScale(t *testing.T) {
	c := newTestCamera()
	if c.PixelsPerUnit() != 50 {
		t.Errorf("PixelsPerUnit = %v, want 50", c.PixelsPerUnit())
	}
	if want := 50 / math.Tan(math.Pi/6); !approx(c.FocalLength(), want, 1e-9) {
		t.Errorf("FocalLength = %v, want %v", c.FocalLength(), want)
	}
}

func TestCameraViewportRecompute(t *testing.T) {
	c := newTestCamera()
	before := c.ViewProjection()
	c.SetViewport(Viewport{Width: 100, Height: 100})
	after := c.ViewProjection()
	if before == after {
		t.Error("aspect change did not recompute the projection")
	}
	if c.Viewport() != (Viewport{Width: 100, Height: 100}) {
		t.Errorf("Viewport = %+v", c.Viewport())
	}
}
