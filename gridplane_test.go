package backdrop

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestBuildGridPlane(t *testing.T) {
	verts, edges := buildGridPlane(40, 20)
	if len(verts) != 21*21 {
		t.Errorf("verts = %d, want %d", len(verts), 21*21)
	}
	if len(edges) != 1240 {
		t.Errorf("edges = %d, want 1240", len(edges))
	}
	if verts[0] != (Vec3{X: -20, Y: 20}) {
		t.Errorf("first vertex = %+v, want top-left corner", verts[0])
	}
	if verts[len(verts)-1] != (Vec3{X: 20, Y: -20}) {
		t.Errorf("last vertex = %+v, want bottom-right corner", verts[len(verts)-1])
	}
}

func TestBuildGridPlaneEdgesUnique(t *testing.T) {
	_, edges := buildGridPlane(10, 4)
	seen := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		k := [2]int{min(e.a, e.b), max(e.a, e.b)}
		if seen[k] {
			t.Fatalf("duplicate edge %v", k)
		}
		seen[k] = true
	}
}

func newTestGrid(t *testing.T) (*GridPlane, *Config) {
	t.Helper()
	cfg := DefaultConfig()
	g := NewGridPlane()
	if err := g.Init(cfg); err != nil {
		t.Fatal(err)
	}
	return g, cfg
}

func TestGridPlaneInitialOpacity(t *testing.T) {
	g, _ := newTestGrid(t)
	if !approx(g.State().Opacity, 0.3, epsilon) {
		t.Errorf("opacity = %v, want 0.3", g.State().Opacity)
	}
	if g.Edges() != 1240 {
		t.Errorf("Edges = %d, want 1240", g.Edges())
	}
}

func TestGridPlaneScrollJump(t *testing.T) {
	g, _ := newTestGrid(t)
	ctx := &FrameContext{}
	ctx.Scroll = 1
	if err := g.Update(ctx); err != nil {
		t.Fatal(err)
	}
	s := g.State()
	if !approx(s.Rotation.X, math.Pi/2, epsilon) {
		t.Errorf("rotation.x = %v, want π/2", s.Rotation.X)
	}
	if !approx(s.Scale, 1.5, epsilon) {
		t.Errorf("scale = %v, want 1.5", s.Scale)
	}
	if !approx(s.Opacity, 0.2, epsilon) {
		t.Errorf("opacity = %v, want 0.2", s.Opacity)
	}
}

func TestGridPlaneOpacityCurve(t *testing.T) {
	g, _ := newTestGrid(t)
	tests := []struct {
		scroll, want float64
	}{
		{0, 0.3},
		{0.5, 0.5},
		{0.75, 0.35},
		{1, 0.2},
	}
	for _, tt := range tests {
		ctx := &FrameContext{}
		ctx.Scroll = tt.scroll
		if err := g.Update(ctx); err != nil {
			t.Fatal(err)
		}
		if got := g.State().Opacity; !approx(got, tt.want, epsilon) {
			t.Errorf("scroll %v: opacity = %v, want %v", tt.scroll, got, tt.want)
		}
	}
}

func TestGridPlanePointer(t *testing.T) {
	g, cfg := newTestGrid(t)
	ctx := &FrameContext{}
	ctx.Pointer = PointerSignal{X: -1, Y: 1}
	if err := g.Update(ctx); err != nil {
		t.Fatal(err)
	}
	if got := g.State().Rotation.Y; !approx(got, -cfg.Grid.PointerInfluence, epsilon) {
		t.Errorf("rotation.y = %v, want %v", got, -cfg.Grid.PointerInfluence)
	}
}

func TestGridPlaneLitColor(t *testing.T) {
	g, cfg := newTestGrid(t)
	base, _ := ParseHexColor(cfg.Grid.Color)
	light := cfg.AmbientIntensity + cfg.EnvironmentIntensity
	c := g.litColor(light)
	want := base.R*light + base.R*cfg.Grid.EmissiveIntensity
	if !approx(c.R, want, 1e-6) {
		t.Errorf("lit red = %v, want %v", c.R, want)
	}
	if !approx(c.A, g.State().Opacity, epsilon) {
		t.Errorf("lit alpha = %v, want opacity %v", c.A, g.State().Opacity)
	}
}

func TestGridPlaneDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Enabled = false
	g := NewGridPlane()
	if err := g.Init(cfg); err != nil {
		t.Fatal(err)
	}
	if err := g.Update(&FrameContext{}); err != nil {
		t.Errorf("disabled Update = %v", err)
	}
	if g.Edges() != 0 {
		t.Errorf("disabled grid has %d edges", g.Edges())
	}
}

func TestGridPlaneUpdateAfterDispose(t *testing.T) {
	g, _ := newTestGrid(t)
	g.Dispose()
	g.Dispose()
	if err := g.Update(&FrameContext{}); err != ErrNotInitialized {
		t.Errorf("Update after Dispose = %v, want ErrNotInitialized", err)
	}
}

func TestGridPlaneDraw(t *testing.T) {
	g, cfg := newTestGrid(t)
	cam := NewCamera(cfg.Camera)
	cam.SetViewport(Viewport{Width: 320, Height: 240})
	dst := ebiten.NewImage(320, 240)
	defer dst.Deallocate()

	ctx := &FrameContext{}
	ctx.Scroll = 1 // tipped edge-on, some edges cross the near plane
	if err := g.Update(ctx); err != nil {
		t.Fatal(err)
	}
	g.Draw(dst, &View{Camera: cam, Group: identityTransform.Matrix(), Light: 0.45})
}
