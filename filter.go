package backdrop

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter renders src into dst with a visual effect.
type Filter interface {
	Apply(src, dst *ebiten.Image)
}

// maxKernelRadius bounds the Gaussian kernel. The shader loop runs to this
// constant and unused taps carry zero weight.
const maxKernelRadius = 11

// --- Kage shader sources ---
// All shaders use //kage:unit pixels. Ebitengine works in premultiplied
// alpha; both shaders are linear in the color, so they operate on it as is.

const thresholdShaderSrc = `//kage:unit pixels
package main

var Threshold float
var SmoothWidth float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	v := dot(c.rgb, vec3(0.2126, 0.7152, 0.0722))
	return c * smoothstep(Threshold, Threshold+SmoothWidth, v)
}
`

const gaussianShaderSrc = `//kage:unit pixels
package main

var Direction vec2
var Weights [11]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	lo := imageSrc0Origin() + 0.5
	hi := imageSrc0Origin() + imageSrc0Size() - 0.5
	total := Weights[0]
	sum := imageSrc0UnsafeAt(src) * total
	for i := 1; i < 11; i++ {
		w := Weights[i]
		off := Direction * float(i)
		a := imageSrc0UnsafeAt(clamp(src+off, lo, hi))
		b := imageSrc0UnsafeAt(clamp(src-off, lo, hi))
		sum += (a + b) * w
		total += 2 * w
	}
	return sum / total
}
`

// --- Lazy shader compilation (game goroutine only) ---

var (
	thresholdShader *ebiten.Shader
	gaussianShader  *ebiten.Shader
)

func ensureThresholdShader() (*ebiten.Shader, error) {
	if thresholdShader == nil {
		s, err := ebiten.NewShader([]byte(thresholdShaderSrc))
		if err != nil {
			return nil, fmt.Errorf("compile threshold shader: %w", err)
		}
		thresholdShader = s
	}
	return thresholdShader, nil
}

func ensureGaussianShader() (*ebiten.Shader, error) {
	if gaussianShader == nil {
		s, err := ebiten.NewShader([]byte(gaussianShaderSrc))
		if err != nil {
			return nil, fmt.Errorf("compile gaussian shader: %w", err)
		}
		gaussianShader = s
	}
	return gaussianShader, nil
}

// compileShaders compiles every bloom shader up front so a broken graphics
// context surfaces at mount time instead of mid-frame.
func compileShaders() error {
	if _, err := ensureThresholdShader(); err != nil {
		return err
	}
	if _, err := ensureGaussianShader(); err != nil {
		return err
	}
	return nil
}

// --- ThresholdFilter ---

// ThresholdFilter keeps only pixels whose luminance exceeds Threshold, with a
// smooth ramp of width SmoothWidth.
type ThresholdFilter struct {
	Threshold   float64
	SmoothWidth float64
	uniforms    map[string]any
	shaderOp    ebiten.DrawRectShaderOptions
}

// NewThresholdFilter creates a luminosity high-pass filter.
func NewThresholdFilter(threshold, smoothWidth float64) *ThresholdFilter {
	return &ThresholdFilter{
		Threshold:   threshold,
		SmoothWidth: smoothWidth,
		uniforms:    make(map[string]any, 2),
	}
}

// Apply renders the bright regions of src into dst. src and dst must be the
// same size.
func (f *ThresholdFilter) Apply(src, dst *ebiten.Image) {
	shader, err := ensureThresholdShader()
	if err != nil {
		return
	}
	f.uniforms["Threshold"] = float32(f.Threshold)
	f.uniforms["SmoothWidth"] = float32(f.SmoothWidth)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// --- GaussianBlurFilter ---

// gaussianWeights returns the one-sided kernel for radius taps with sigma
// equal to radius. Entries at or past radius are zero.
func gaussianWeights(radius int) [maxKernelRadius]float32 {
	var w [maxKernelRadius]float32
	radius = min(max(radius, 1), maxKernelRadius)
	sigma := float64(radius)
	for i := 0; i < radius; i++ {
		x := float64(i)
		w[i] = float32(0.39894 * math.Exp(-0.5*x*x/(sigma*sigma)) / sigma)
	}
	return w
}

// GaussianBlurFilter is one direction of a separable Gaussian blur.
type GaussianBlurFilter struct {
	Radius     int
	Horizontal bool

	weights  [maxKernelRadius]float32
	weightsS []float32 // points into weights
	dir      []float32
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

// NewGaussianBlurFilter creates a one-direction blur with the given kernel
// radius, clamped to [1, maxKernelRadius].
func NewGaussianBlurFilter(radius int, horizontal bool) *GaussianBlurFilter {
	f := &GaussianBlurFilter{
		Radius:     min(max(radius, 1), maxKernelRadius),
		Horizontal: horizontal,
		dir:        []float32{0, 1},
		uniforms:   make(map[string]any, 2),
	}
	if horizontal {
		f.dir[0], f.dir[1] = 1, 0
	}
	f.weights = gaussianWeights(f.Radius)
	f.weightsS = f.weights[:]
	f.uniforms["Weights"] = f.weightsS
	f.uniforms["Direction"] = f.dir
	return f
}

// Apply blurs src into dst. src and dst must be the same size.
func (f *GaussianBlurFilter) Apply(src, dst *ebiten.Image) {
	shader, err := ensureGaussianShader()
	if err != nil {
		return
	}
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// --- BlurFilter ---

// BlurFilter applies a Kawase iterative blur using downscale/upscale passes.
// Bilinear filtering during DrawImage does the work, so no shader is needed.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius (in pixels).
func NewBlurFilter(radius int) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius}
}

// Apply renders a Kawase blur from src into dst using iterative downscale/upscale.
// A radius of zero copies src.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	if f.Radius <= 0 {
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	passes := max(int(math.Ceil(math.Log2(float64(f.Radius)))), 1)
	f.resizeTemps(passes)

	// Downscale: each pass halves.
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	current := src
	for i := 0; i < passes; i++ {
		w, h = max(w/2, 1), max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		drawScaled(f.temps[i], current, op)
		current = f.temps[i]
	}

	// Upscale back through the chain.
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		drawScaled(f.temps[i], current, op)
		current = f.temps[i]
	}
	drawScaled(dst, current, op)
}

func (f *BlurFilter) resizeTemps(n int) {
	for len(f.temps) < n {
		f.temps = append(f.temps, nil)
	}
	for i := n; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:n]
}

// Dispose deallocates the temporary images.
func (f *BlurFilter) Dispose() {
	f.resizeTemps(0)
}

// drawScaled stretches src over all of dst with linear filtering.
func drawScaled(dst, src *ebiten.Image, op *ebiten.DrawImageOptions) {
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sw, sh := float64(src.Bounds().Dx()), float64(src.Bounds().Dy())
	tw, th := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	op.GeoM.Scale(tw/sw, th/sh)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}
