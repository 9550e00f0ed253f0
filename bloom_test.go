package backdrop

import (
	"errors"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestGaussianWeights(t *testing.T) {
	for _, r := range bloomKernelRadii {
		w := gaussianWeights(r)
		for i := 1; i < r; i++ {
			if w[i] >= w[i-1] {
				t.Errorf("radius %d: weight %d = %v not below %v", r, i, w[i], w[i-1])
			}
		}
		for i := r; i < maxKernelRadius; i++ {
			if w[i] != 0 {
				t.Errorf("radius %d: weight %d = %v past the kernel", r, i, w[i])
			}
		}
		want := 0.39894 / float64(r)
		if !approx(float64(w[0]), want, 1e-6) {
			t.Errorf("radius %d: center = %v, want %v", r, w[0], want)
		}
	}
}

func TestGaussianWeightsClamp(t *testing.T) {
	if gaussianWeights(0) != gaussianWeights(1) {
		t.Error("radius 0 not clamped to 1")
	}
	if gaussianWeights(50) != gaussianWeights(maxKernelRadius) {
		t.Error("radius 50 not clamped to the maximum")
	}
}

func TestNewGaussianBlurFilter(t *testing.T) {
	h := NewGaussianBlurFilter(5, true)
	if h.dir[0] != 1 || h.dir[1] != 0 {
		t.Errorf("horizontal direction = %v", h.dir)
	}
	v := NewGaussianBlurFilter(5, false)
	if v.dir[0] != 0 || v.dir[1] != 1 {
		t.Errorf("vertical direction = %v", v.dir)
	}
	if got := h.uniforms["Weights"].([]float32); len(got) != maxKernelRadius {
		t.Errorf("Weights uniform len = %d", len(got))
	}
	if NewGaussianBlurFilter(99, true).Radius != maxKernelRadius {
		t.Error("radius not clamped")
	}
}

func TestBloomFactor(t *testing.T) {
	tests := []struct {
		f, radius, want float64
	}{
		{1.0, 0, 1.0},
		{1.0, 1, 0.2},
		{0.2, 1, 1.0},
		{0.6, 0.5, 0.6},
		{1.0, 0.5, 0.6},
	}
	for _, tt := range tests {
		if got := bloomFactor(tt.f, tt.radius); !approx(got, tt.want, 1e-12) {
			t.Errorf("bloomFactor(%v, %v) = %v, want %v", tt.f, tt.radius, got, tt.want)
		}
	}
}

func TestBloomWeights(t *testing.T) {
	b, err := NewBloomPass(BloomConfig{Strength: 0.8, Radius: 0.5, Mips: 5})
	if err != nil {
		t.Fatal(err)
	}
	// At radius 0.5 every mip weighs 0.6 before strength.
	for i := 0; i < maxBloomMips; i++ {
		if !approx(b.Weight(i), 0.48, 1e-12) {
			t.Errorf("Weight(%d) = %v, want 0.48", i, b.Weight(i))
		}
	}
}

func TestMipSize(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 720}
	tests := []struct{ w, h int }{
		{640, 360},
		{320, 180},
		{160, 90},
		{80, 45},
		{40, 23},
	}
	for i, tt := range tests {
		w, h := mipSize(vp, i)
		if w != tt.w || h != tt.h {
			t.Errorf("mip %d = %dx%d, want %dx%d", i, w, h, tt.w, tt.h)
		}
	}
	if w, h := mipSize(Viewport{Width: 3, Height: 3}, 4); w != 1 || h != 1 {
		t.Errorf("tiny mip = %dx%d, want 1x1", w, h)
	}
}

func TestBloomLevels(t *testing.T) {
	for _, tt := range []struct{ mips, want int }{{0, 1}, {3, 3}, {9, maxBloomMips}} {
		b := &BloomPass{cfg: BloomConfig{Mips: tt.mips}}
		if got := b.levels(); got != tt.want {
			t.Errorf("Mips %d: levels = %d, want %d", tt.mips, got, tt.want)
		}
	}
}

func TestBloomDisabledCopies(t *testing.T) {
	b, err := NewBloomPass(BloomConfig{Enabled: false})
	if err != nil {
		t.Fatal(err)
	}
	if b.threshold != nil {
		t.Error("disabled pass built filters")
	}
	if err := b.Resize(Viewport{Width: 64, Height: 32}); err != nil {
		t.Fatal(err)
	}
	if b.pool.Outstanding() != 0 {
		t.Errorf("disabled pass acquired %d targets", b.pool.Outstanding())
	}
	src := ebiten.NewImage(64, 32)
	dst := ebiten.NewImage(64, 32)
	defer src.Deallocate()
	defer dst.Deallocate()
	b.Render(&FrameContext{}, src, dst)
	b.Dispose()
	b.Dispose()
}

func TestBloomResizeInvalid(t *testing.T) {
	b, _ := NewBloomPass(BloomConfig{})
	if err := b.Resize(Viewport{Width: 0, Height: 10}); !errors.Is(err, ErrInvalidViewport) {
		t.Errorf("Resize = %v, want ErrInvalidViewport", err)
	}
}

func TestBlurFilterNegativeRadius(t *testing.T) {
	f := NewBlurFilter(-5)
	if f.Radius != 0 {
		t.Errorf("Radius = %d, want 0", f.Radius)
	}
}

func TestBlurFilterApply(t *testing.T) {
	f := NewBlurFilter(20)
	src := ebiten.NewImage(64, 64)
	dst := ebiten.NewImage(64, 64)
	defer src.Deallocate()
	defer dst.Deallocate()

	f.Apply(src, dst)
	if want := int(math.Ceil(math.Log2(20))); len(f.temps) != want {
		t.Errorf("temps = %d, want %d", len(f.temps), want)
	}
	f.Radius = 2
	f.Apply(src, dst)
	if len(f.temps) != 1 {
		t.Errorf("temps after shrink = %d, want 1", len(f.temps))
	}
	f.Dispose()
	if len(f.temps) != 0 {
		t.Errorf("temps after Dispose = %d", len(f.temps))
	}
}
