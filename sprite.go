package backdrop

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// spriteShape selects the footprint of a point sprite.
type spriteShape uint8

const (
	// spriteSquare is a solid square, the footprint of an untextured point.
	spriteSquare spriteShape = iota
	// spriteFade is a disc whose alpha falls off as 1/(1+exp(16(d-0.25))),
	// d being the distance from the center in sprite units.
	spriteFade
)

const fadeSpriteSize = 32

// --- Sprite image singletons (game goroutine only) ---

var (
	whitePixelImage *ebiten.Image
	fadeSpriteImage *ebiten.Image
)

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

func ensureFadeSprite() *ebiten.Image {
	if fadeSpriteImage == nil {
		fadeSpriteImage = generateFadeSprite(fadeSpriteSize)
	}
	return fadeSpriteImage
}

func spriteImage(s spriteShape) *ebiten.Image {
	if s == spriteFade {
		return ensureFadeSprite()
	}
	return ensureWhitePixel()
}

// fadeAlpha is the rim falloff of a faded point at distance d from its
// center, where 0.5 is the edge of the point.
func fadeAlpha(d float64) float64 {
	return 1 / (1 + math.Exp(16*(d-0.25)))
}

// generateFadeSprite creates a premultiplied white disc with fadeAlpha falloff.
func generateFadeSprite(size int) *ebiten.Image {
	img := ebiten.NewImage(size, size)
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x)+0.5)/float64(size) - 0.5
			dy := (float64(y)+0.5)/float64(size) - 0.5
			a := uint8(fadeAlpha(math.Sqrt(dx*dx+dy*dy))*255 + 0.5)
			off := (y*size + x) * 4
			pix[off+0] = a
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	img.WritePixels(pix)
	return img
}

// pointBatch accumulates screen-space point sprites and submits them in a
// single DrawTriangles32 call. Buffers keep their high-water capacity.
type pointBatch struct {
	verts []ebiten.Vertex
	inds  []uint32
	triOp ebiten.DrawTrianglesOptions
}

// newPointBatch preallocates room for n points.
func newPointBatch(n int) *pointBatch {
	return &pointBatch{
		verts: make([]ebiten.Vertex, 0, n*4),
		inds:  make([]uint32, 0, n*6),
	}
}

func (b *pointBatch) reset() {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
}

// len returns the number of queued points.
func (b *pointBatch) len() int { return len(b.verts) / 4 }

// add queues a point centered at (x, y) with the given diameter in pixels.
// Points smaller than a pixel are drawn one pixel wide.
func (b *pointBatch) add(x, y, diameter float64, c Color, alpha float64, src *ebiten.Image) {
	if diameter < 1 {
		diameter = 1
	}
	h := diameter / 2
	a := float32(clamp01(alpha))
	cr, cg, cb := float32(c.R)*a, float32(c.G)*a, float32(c.B)*a

	sb := src.Bounds()
	su0, sv0 := float32(sb.Min.X), float32(sb.Min.Y)
	su1, sv1 := float32(sb.Max.X), float32(sb.Max.Y)
	psx := [4]float32{su0, su1, su0, su1}
	psy := [4]float32{sv0, sv0, sv1, sv1}
	qx := [4]float64{x - h, x + h, x - h, x + h}
	qy := [4]float64{y - h, y - h, y + h, y + h}

	base := uint32(len(b.verts))
	for j := 0; j < 4; j++ {
		b.verts = append(b.verts, ebiten.Vertex{
			DstX:   float32(qx[j]),
			DstY:   float32(qy[j]),
			SrcX:   psx[j],
			SrcY:   psy[j],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: a,
		})
	}
	b.inds = append(b.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// flush draws every queued point onto dst and resets the batch.
func (b *pointBatch) flush(dst, src *ebiten.Image, blend BlendMode) {
	if len(b.verts) == 0 {
		return
	}
	b.triOp.Blend = blend.EbitenBlend()
	b.triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	b.triOp.Filter = ebiten.FilterLinear
	dst.DrawTriangles32(b.verts, b.inds, src, &b.triOp)
	b.reset()
}
