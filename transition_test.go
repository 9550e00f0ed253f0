package backdrop

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

func TestIdentityTransition(t *testing.T) {
	tr := IdentityTransition()
	if !tr.Done || tr.Opacity != 1 || tr.Scale != 1 || tr.Blur != 0 {
		t.Errorf("identity = %+v", tr)
	}
	tr.Update(1)
	if tr.Opacity != 1 {
		t.Error("identity changed on Update")
	}
}

func TestFadeIn(t *testing.T) {
	tr := FadeIn(0.5, ease.Linear)
	if tr.Opacity != 0 || tr.Done {
		t.Fatalf("start = %+v", tr)
	}
	tr.Update(0.25)
	if !approx(tr.Opacity, 0.5, 1e-6) {
		t.Errorf("halfway opacity = %v, want 0.5", tr.Opacity)
	}
	tr.Update(0.5)
	if tr.Opacity != 1 || !tr.Done {
		t.Errorf("end = %+v, want opacity 1 and done", tr)
	}
}

func TestFadeOut(t *testing.T) {
	tr := FadeOut(0.8, 1.1, 20, ease.Linear)
	if tr.Opacity != 1 || tr.Scale != 1 || tr.Blur != 0 {
		t.Fatalf("start = %+v", tr)
	}
	tr.Update(0.4)
	if !approx(tr.Scale, 1.05, 1e-6) || !approx(tr.Blur, 10, 1e-4) {
		t.Errorf("halfway = %+v", tr)
	}
	tr.Update(1)
	if !tr.Done || tr.Opacity != 0 || !approx(tr.Scale, 1.1, 1e-6) || !approx(tr.Blur, 20, 1e-4) {
		t.Errorf("end = %+v", tr)
	}
}

func TestCubicBezier(t *testing.T) {
	fn := CubicBezier(0.43, 0.13, 0.23, 0.96)
	if got := fn(0, 0, 1, 1); !approx(float64(got), 0, 1e-6) {
		t.Errorf("f(0) = %v, want 0", got)
	}
	if got := fn(1, 0, 1, 1); !approx(float64(got), 1, 1e-6) {
		t.Errorf("f(1) = %v, want 1", got)
	}
	prev := float32(-1)
	for i := 0; i <= 20; i++ {
		got := fn(float32(i)/20, 0, 1, 1)
		if got < prev {
			t.Fatalf("not monotonic at step %d: %v < %v", i, got, prev)
		}
		prev = got
	}
	// begin and change scale the output
	if got := fn(1, 2, 3, 1); !approx(float64(got), 5, 1e-5) {
		t.Errorf("f(1; b=2, c=3) = %v, want 5", got)
	}
	if got := fn(0, 0, 1, 0); got != 1 {
		t.Errorf("zero duration = %v, want end value", got)
	}
}

func TestCubicBezierLinear(t *testing.T) {
	fn := CubicBezier(0, 0, 1, 1)
	for _, x := range []float32{0.1, 0.37, 0.8} {
		if got := fn(x, 0, 1, 1); !approx(float64(got), float64(x), 1e-5) {
			t.Errorf("linear bezier(%v) = %v", x, got)
		}
	}
}

func TestTransitionApply(t *testing.T) {
	src := ebiten.NewImage(32, 32)
	dst := ebiten.NewImage(32, 32)
	defer src.Deallocate()
	defer dst.Deallocate()

	tr := FadeOut(1, 1.1, 20, ease.Linear)
	tr.Update(0.5)
	tr.Apply(src, dst)
	if tr.tmp == nil || tr.blur == nil {
		t.Error("blurred transition did not allocate its blur target")
	}
	tr.Dispose()
	if tr.tmp != nil {
		t.Error("Dispose kept the blur target")
	}

	hidden := FadeIn(1, ease.Linear)
	hidden.Apply(src, dst) // opacity 0 draws nothing
	if hidden.tmp != nil {
		t.Error("invisible transition allocated images")
	}
}
