package backdrop

import "github.com/go-gl/mathgl/mgl64"

// Transform is a layer's placement in the scene.
//
// Composition order matches the Euler "XYZ" convention:
//
//	Translate(Position) * RotateX * RotateY * RotateZ * Scale
type Transform struct {
	Position Vec3
	Rotation Vec3 // radians
	Scale    float64
}

// identityTransform places a layer at the origin with unit scale.
var identityTransform = Transform{Scale: 1}

// Matrix returns the local model matrix.
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X, t.Position.Y, t.Position.Z).
		Mul4(mgl64.HomogRotate3DX(t.Rotation.X)).
		Mul4(mgl64.HomogRotate3DY(t.Rotation.Y)).
		Mul4(mgl64.HomogRotate3DZ(t.Rotation.Z)).
		Mul4(mgl64.Scale3D(t.Scale, t.Scale, t.Scale))
}

// LayerState is the mutable per-layer state: transform plus material
// opacity. Only the owning layer writes it.
type LayerState struct {
	Transform
	Opacity float64
}

// defaultLayerState is the state a layer starts from before its first update.
var defaultLayerState = LayerState{Transform: identityTransform, Opacity: 1}

// validate rejects NaN or Inf anywhere in the state.
func (s LayerState) validate() error {
	if !s.Position.finite() || !s.Rotation.finite() || !isFinite(s.Scale) || !isFinite(s.Opacity) {
		return ErrNonFiniteState
	}
	return nil
}

// transformPoint applies m to p.
func transformPoint(m mgl64.Mat4, p Vec3) mgl64.Vec3 {
	v := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return mgl64.Vec3{v[0], v[1], v[2]}
}
