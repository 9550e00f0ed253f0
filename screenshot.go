package backdrop

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ScreenshotQueue collects labeled capture requests and writes them as PNG
// files at the end of the next Draw.
type ScreenshotQueue struct {
	// Dir receives the PNG files. Created on first flush.
	Dir string

	queue []string
}

// NewScreenshotQueue creates a queue writing into dir.
func NewScreenshotQueue(dir string) *ScreenshotQueue {
	return &ScreenshotQueue{Dir: dir}
}

// Screenshot queues a labeled screenshot to be captured at the end of the
// current frame's Draw call. Safe to call from Update or Draw.
func (q *ScreenshotQueue) Screenshot(label string) {
	q.queue = append(q.queue, label)
}

// Pending returns the number of queued captures.
func (q *ScreenshotQueue) Pending() int { return len(q.queue) }

// Flush captures screen once for every queued label and writes each as a PNG
// file named after a timestamp and the label.
func (q *ScreenshotQueue) Flush(screen *ebiten.Image) {
	if len(q.queue) == 0 {
		return
	}
	defer func() { q.queue = q.queue[:0] }()

	if err := os.MkdirAll(q.Dir, 0o755); err != nil {
		slogger().Warn("screenshot: mkdir failed", "dir", q.Dir, "err", err)
		return
	}

	img := readNRGBA(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range q.queue {
		path := filepath.Join(q.Dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			slogger().Warn("screenshot: write failed", "err", err)
			continue
		}
		slogger().Info("screenshot", "path", path)
	}
}

// readNRGBA reads screen back and converts premultiplied RGBA to
// straight-alpha NRGBA.
func readNRGBA(screen *ebiten.Image) *image.NRGBA {
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
