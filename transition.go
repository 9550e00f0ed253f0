package backdrop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Transition animates how a host composites a background: opacity, scale
// about the center and blur radius. Call Update(dt) each frame and Apply in
// Draw. There is no global animation manager.
type Transition struct {
	Opacity float64
	Scale   float64
	Blur    float64
	Done    bool

	tweens [3]*gween.Tween
	fields [3]*float64
	count  int

	blur  *BlurFilter
	tmp   *ebiten.Image
	imgOp ebiten.DrawImageOptions
}

// IdentityTransition draws the background as is.
func IdentityTransition() *Transition {
	return &Transition{Opacity: 1, Scale: 1, Done: true}
}

func (t *Transition) tween(field *float64, from, to float64, duration float32, fn ease.TweenFunc) {
	*field = from
	t.tweens[t.count] = gween.New(float32(from), float32(to), duration, fn)
	t.fields[t.count] = field
	t.count++
}

// FadeIn animates opacity from 0 to 1.
func FadeIn(duration float32, fn ease.TweenFunc) *Transition {
	t := &Transition{Scale: 1}
	t.tween(&t.Opacity, 0, 1, duration, fn)
	return t
}

// FadeOut animates opacity to 0 while scaling up to scale and blurring to
// blur pixels.
func FadeOut(duration float32, scale, blur float64, fn ease.TweenFunc) *Transition {
	t := &Transition{}
	t.tween(&t.Opacity, 1, 0, duration, fn)
	t.tween(&t.Scale, 1, scale, duration, fn)
	t.tween(&t.Blur, 0, blur, duration, fn)
	return t
}

// Update advances all tweens by dt seconds and writes their values.
func (t *Transition) Update(dt float32) {
	if t.Done {
		return
	}
	allDone := true
	for i := 0; i < t.count; i++ {
		val, finished := t.tweens[i].Update(dt)
		*t.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	t.Done = allDone
}

// Apply draws src onto dst with the current opacity, scale and blur.
func (t *Transition) Apply(src, dst *ebiten.Image) {
	if t.Opacity <= 0 {
		return
	}
	img := src
	if radius := int(t.Blur + 0.5); radius > 0 {
		img = t.blurred(src, radius)
	}

	op := &t.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Filter = ebiten.FilterLinear
	b := src.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	op.GeoM.Translate(-cx, -cy)
	op.GeoM.Scale(t.Scale, t.Scale)
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleAlpha(float32(clamp01(t.Opacity)))
	dst.DrawImage(img, op)
}

func (t *Transition) blurred(src *ebiten.Image, radius int) *ebiten.Image {
	b := src.Bounds()
	if t.tmp == nil || t.tmp.Bounds().Dx() != b.Dx() || t.tmp.Bounds().Dy() != b.Dy() {
		if t.tmp != nil {
			t.tmp.Deallocate()
		}
		t.tmp = ebiten.NewImage(b.Dx(), b.Dy())
	} else {
		t.tmp.Clear()
	}
	if t.blur == nil {
		t.blur = NewBlurFilter(radius)
	}
	t.blur.Radius = radius
	t.blur.Apply(src, t.tmp)
	return t.tmp
}

// Dispose releases the blur images.
func (t *Transition) Dispose() {
	if t.blur != nil {
		t.blur.Dispose()
	}
	if t.tmp != nil {
		t.tmp.Deallocate()
		t.tmp = nil
	}
}

// CubicBezier returns an easing function for the CSS cubic-bezier curve with
// control points (x1, y1) and (x2, y2).
func CubicBezier(x1, y1, x2, y2 float64) ease.TweenFunc {
	return func(t, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		x := clamp01(float64(t / d))
		return b + c*float32(bezierY(bezierT(x, x1, x2), y1, y2))
	}
}

// bezier evaluates one axis of a cubic bezier anchored at 0 and 1.
func bezier(s, p1, p2 float64) float64 {
	u := 1 - s
	return 3*u*u*s*p1 + 3*u*s*s*p2 + s*s*s
}

func bezierY(s, y1, y2 float64) float64 { return bezier(s, y1, y2) }

// bezierT solves bezier(s, x1, x2) = x for s by bisection. x is monotonic in
// s because both x control points lie in [0, 1].
func bezierT(x, x1, x2 float64) float64 {
	lo, hi := 0.0, 1.0
	for i := 0; i < 32; i++ {
		mid := (lo + hi) / 2
		if bezier(mid, x1, x2) < x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
