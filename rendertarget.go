package backdrop

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Render target pool ---

// targetPool manages reusable offscreen images keyed by exact dimensions.
// Shader passes need source and destination of equal size, so sizes are not
// rounded. After warmup, Acquire/Release allocate nothing.
type targetPool struct {
	buckets     map[uint64][]*ebiten.Image
	outstanding int
}

// poolKey packs width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image of exactly (w, h) pixels. Sizes
// below one pixel are raised to one.
func (p *targetPool) Acquire(w, h int) *ebiten.Image {
	w, h = max(w, 1), max(h, 1)
	key := poolKey(w, h)
	p.outstanding++

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, w, h),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here.
func (p *targetPool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
	p.outstanding--
}

// Outstanding returns the number of acquired images not yet released.
func (p *targetPool) Outstanding() int { return p.outstanding }

// Free returns the number of pooled images waiting for reuse.
func (p *targetPool) Free() int {
	n := 0
	for _, stack := range p.buckets {
		n += len(stack)
	}
	return n
}

// Dispose deallocates every pooled image. Outstanding images stay with their
// holders.
func (p *targetPool) Dispose() {
	for key, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
		delete(p.buckets, key)
	}
}
