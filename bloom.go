package backdrop

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxBloomMips is the depth of the bloom mip chain.
const maxBloomMips = 5

// Per-mip kernel radii and base weights, coarsest mip last.
var (
	bloomKernelRadii = [maxBloomMips]int{3, 5, 7, 9, 11}
	bloomFactors     = [maxBloomMips]float64{1.0, 0.8, 0.6, 0.4, 0.2}
)

// bloomFactor blends a mip's base weight toward its mirror as radius goes
// from 0 to 1, so a larger radius favors the coarse mips.
func bloomFactor(f, radius float64) float64 {
	return lerp(f, 1.2-f, radius)
}

// mipSize returns the size of mip i for a viewport: half resolution at mip 0,
// halving again per level.
func mipSize(vp Viewport, i int) (int, int) {
	d := math.Exp2(float64(i + 1))
	return max(int(math.Round(float64(vp.Width)/d)), 1), max(int(math.Round(float64(vp.Height)/d)), 1)
}

// BloomPass extracts bright regions, blurs them down a mip chain and adds the
// result back onto the image.
type BloomPass struct {
	cfg  BloomConfig
	pool *targetPool

	threshold *ThresholdFilter
	blurH     [maxBloomMips]*GaussianBlurFilter
	blurV     [maxBloomMips]*GaussianBlurFilter

	vp     Viewport
	bright *ebiten.Image
	mips   [maxBloomMips]*ebiten.Image
	temps  [maxBloomMips]*ebiten.Image

	imgOp ebiten.DrawImageOptions
}

// NewBloomPass compiles the bloom shaders and returns a pass sized on the
// first Resize. A disabled pass compiles nothing and copies its input.
func NewBloomPass(cfg BloomConfig) (*BloomPass, error) {
	b := &BloomPass{cfg: cfg, pool: &targetPool{}}
	if !cfg.Enabled {
		return b, nil
	}
	if err := compileShaders(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}
	b.threshold = NewThresholdFilter(cfg.Threshold, cfg.SmoothWidth)
	for i := 0; i < b.levels(); i++ {
		b.blurH[i] = NewGaussianBlurFilter(bloomKernelRadii[i], true)
		b.blurV[i] = NewGaussianBlurFilter(bloomKernelRadii[i], false)
	}
	return b, nil
}

func (b *BloomPass) Name() string { return "bloom" }

func (b *BloomPass) usePool(p *targetPool) { b.pool = p }

// levels returns the number of mips in use.
func (b *BloomPass) levels() int {
	return min(max(b.cfg.Mips, 1), maxBloomMips)
}

// Weight returns the composite weight of mip i.
func (b *BloomPass) Weight(i int) float64 {
	return b.cfg.Strength * bloomFactor(bloomFactors[i], b.cfg.Radius)
}

// Resize reallocates the bright target and mip chain.
func (b *BloomPass) Resize(vp Viewport) error {
	if !vp.Valid() {
		return fmt.Errorf("bloom resize %dx%d: %w", vp.Width, vp.Height, ErrInvalidViewport)
	}
	if !b.cfg.Enabled {
		b.vp = vp
		return nil
	}
	b.release()
	b.vp = vp
	b.bright = b.pool.Acquire(vp.Width, vp.Height)
	for i := 0; i < b.levels(); i++ {
		w, h := mipSize(vp, i)
		b.mips[i] = b.pool.Acquire(w, h)
		b.temps[i] = b.pool.Acquire(w, h)
	}
	return nil
}

// Render composites src plus its bloom onto dst.
func (b *BloomPass) Render(_ *FrameContext, src, dst *ebiten.Image) {
	op := &b.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Blend = BlendNone.EbitenBlend()
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(src, op)
	if !b.cfg.Enabled || b.bright == nil {
		return
	}

	b.bright.Clear()
	b.threshold.Apply(src, b.bright)

	input := b.bright
	for i := 0; i < b.levels(); i++ {
		mip, tmp := b.mips[i], b.temps[i]
		mip.Clear()
		op.Blend = BlendNone.EbitenBlend()
		drawScaled(mip, input, op)
		tmp.Clear()
		b.blurH[i].Apply(mip, tmp)
		mip.Clear()
		b.blurV[i].Apply(tmp, mip)
		input = mip
	}

	sw, sh := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	for i := 0; i < b.levels(); i++ {
		mip := b.mips[i]
		op.GeoM.Reset()
		op.GeoM.Scale(sw/float64(mip.Bounds().Dx()), sh/float64(mip.Bounds().Dy()))
		op.ColorScale.Reset()
		w := float32(b.Weight(i))
		op.ColorScale.Scale(w, w, w, w)
		op.Blend = BlendAdd.EbitenBlend()
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(mip, op)
	}
}

func (b *BloomPass) release() {
	b.pool.Release(b.bright)
	b.bright = nil
	for i := range b.mips {
		b.pool.Release(b.mips[i])
		b.pool.Release(b.temps[i])
		b.mips[i], b.temps[i] = nil, nil
	}
}

// Dispose returns every target to the pool. Safe to call more than once.
func (b *BloomPass) Dispose() {
	b.release()
	b.vp = Viewport{}
}
