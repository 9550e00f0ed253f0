package backdrop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// gridEdge indexes two vertices of the plane.
type gridEdge struct{ a, b int }

// buildGridPlane returns the vertices of a size×size plane in XY split into
// segments×segments cells, plus the unique edges of its triangulation: each
// cell contributes its top and left sides and one diagonal, and the last row
// and column close the border.
func buildGridPlane(size float64, segments int) ([]Vec3, []gridEdge) {
	n := segments + 1
	half := size / 2
	cell := size / float64(segments)
	verts := make([]Vec3, 0, n*n)
	for iy := 0; iy < n; iy++ {
		y := half - float64(iy)*cell
		for ix := 0; ix < n; ix++ {
			verts = append(verts, Vec3{X: -half + float64(ix)*cell, Y: y})
		}
	}

	edges := make([]gridEdge, 0, 3*segments*segments+2*segments)
	at := func(ix, iy int) int { return iy*n + ix }
	for iy := 0; iy < segments; iy++ {
		for ix := 0; ix < segments; ix++ {
			a := at(ix, iy)
			b := at(ix, iy+1)
			d := at(ix+1, iy)
			edges = append(edges, gridEdge{a, b}, gridEdge{a, d}, gridEdge{b, d})
		}
	}
	for i := 0; i < segments; i++ {
		edges = append(edges,
			gridEdge{at(i, segments), at(i+1, segments)},
			gridEdge{at(segments, i), at(segments, i+1)},
		)
	}
	return verts, edges
}

// GridPlane is a wireframe plane that tips over as the page scrolls.
type GridPlane struct {
	cfg      GridConfig
	curves   curveSet
	color    Color
	emissive Color
	verts    []Vec3
	edges    []gridEdge
	state    LayerState
	ready    bool
}

// NewGridPlane returns an uninitialized GridPlane.
func NewGridPlane() *GridPlane {
	return &GridPlane{state: defaultLayerState}
}

func (g *GridPlane) Name() string { return "grid" }

// Init builds the plane geometry and resolves its curves and colors.
func (g *GridPlane) Init(cfg *Config) error {
	g.cfg = cfg.Grid
	g.state = defaultLayerState
	g.verts, g.edges = nil, nil
	g.ready = false
	if !g.cfg.Enabled {
		g.ready = true
		return nil
	}
	var err error
	if g.curves, err = cfg.curves(); err != nil {
		return err
	}
	if g.color, err = ParseHexColor(g.cfg.Color); err != nil {
		return err
	}
	if g.emissive, err = ParseHexColor(g.cfg.Emissive); err != nil {
		return err
	}
	g.verts, g.edges = buildGridPlane(g.cfg.Size, g.cfg.Segments)
	g.state.Opacity = g.curves.gridOpacity.Interpolate(0)
	g.ready = true
	return nil
}

// Update maps scroll progress through the rotation, scale and opacity curves
// and turns the plane toward pointer.x.
func (g *GridPlane) Update(ctx *FrameContext) error {
	if !g.ready {
		return ErrNotInitialized
	}
	if !g.cfg.Enabled {
		return nil
	}
	next := g.state
	next.Rotation.X = g.curves.gridRotation.Interpolate(ctx.Scroll)
	next.Rotation.Y = ctx.Pointer.X * g.cfg.PointerInfluence
	next.Scale = g.curves.scale.Interpolate(ctx.Scroll)
	next.Opacity = g.curves.gridOpacity.Interpolate(ctx.Scroll)
	return commitState(&g.state, next)
}

// litColor is the material color under the scene light plus its emissive term.
func (g *GridPlane) litColor(light float64) Color {
	c := g.color.Scale(light).Add(g.emissive.Scale(g.cfg.EmissiveIntensity))
	c.A = clamp01(g.state.Opacity)
	return c
}

// Draw strokes every edge, clipped against the camera's near plane.
func (g *GridPlane) Draw(dst *ebiten.Image, v *View) {
	if len(g.edges) == 0 || v.Camera == nil || g.state.Opacity <= 0 {
		return
	}
	model := v.model(g.state)
	clr := g.litColor(v.Light).toRGBA()
	w := float32(g.cfg.LineWidth)
	for _, e := range g.edges {
		a := transformPoint(model, g.verts[e.a])
		b := transformPoint(model, g.verts[e.b])
		x0, y0, x1, y1, ok := v.Camera.ProjectSegment(a, b)
		if !ok {
			continue
		}
		vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), w, clr, true)
	}
}

// State returns the current transform and opacity.
func (g *GridPlane) State() LayerState { return g.state }

// Edges returns the number of wireframe edges.
func (g *GridPlane) Edges() int { return len(g.edges) }

// Dispose drops the geometry.
func (g *GridPlane) Dispose() {
	g.verts, g.edges = nil, nil
	g.ready = false
}
