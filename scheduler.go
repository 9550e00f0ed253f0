package backdrop

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// FrameFunc is a per-refresh callback. screen is the image to draw on and
// now the time since the refresh source started.
type FrameFunc func(screen *ebiten.Image, now time.Duration)

// FrameRequest identifies a pending FrameFunc.
type FrameRequest uint64

// RefreshSource runs requested callbacks once on the next display refresh.
type RefreshSource interface {
	RequestFrame(fn FrameFunc) FrameRequest
	CancelFrame(id FrameRequest)
}

// --- DisplayLink ---

type linkEntry struct {
	id FrameRequest
	fn FrameFunc
}

// DisplayLink is the ebiten RefreshSource: callbacks requested before a Fire
// run once inside that Fire, normally called from Game.Draw. Callbacks
// requested while firing wait for the next Fire.
type DisplayLink struct {
	pending []linkEntry
	firing  []linkEntry
	nextID  FrameRequest
	start   time.Time
}

// NewDisplayLink creates a link whose clock starts now.
func NewDisplayLink() *DisplayLink {
	return &DisplayLink{start: time.Now()}
}

// RequestFrame queues fn for the next Fire.
func (d *DisplayLink) RequestFrame(fn FrameFunc) FrameRequest {
	d.nextID++
	d.pending = append(d.pending, linkEntry{id: d.nextID, fn: fn})
	return d.nextID
}

// CancelFrame drops a queued callback. Unknown ids are ignored.
func (d *DisplayLink) CancelFrame(id FrameRequest) {
	d.pending = removeHandler(d.pending, func(e linkEntry) bool { return e.id == id })
	for i := range d.firing {
		if d.firing[i].id == id {
			d.firing[i].fn = nil
		}
	}
}

// Pending returns the number of callbacks waiting for the next Fire.
func (d *DisplayLink) Pending() int { return len(d.pending) }

// Fire runs every callback queued so far with the link's clock.
func (d *DisplayLink) Fire(screen *ebiten.Image) int {
	return d.FireAt(screen, time.Since(d.start))
}

// FireAt runs every callback queued so far at an explicit time. It returns the
// number of callbacks run.
func (d *DisplayLink) FireAt(screen *ebiten.Image, now time.Duration) int {
	if len(d.pending) == 0 {
		return 0
	}
	d.firing, d.pending = d.pending, d.firing[:0]
	n := 0
	for i := range d.firing {
		if fn := d.firing[i].fn; fn != nil {
			fn(screen, now)
			n++
		}
	}
	clear(d.firing)
	d.firing = d.firing[:0]
	return n
}

// --- FrameScheduler ---

// FrameScheduler drives one background: every refresh it snapshots input,
// updates the layers in order, renders the pipeline and re-arms itself.
type FrameScheduler struct {
	refresh  RefreshSource
	tracker  *InputSignalTracker
	pipeline *RenderPipeline
	layers   []Layer
	log      *slog.Logger
	debug    bool

	request FrameRequest
	armed   bool
	started bool
	stopped bool

	startAt time.Duration
	last    time.Duration
	frame   uint64
	stats   frameStats
}

// NewFrameScheduler wires the scheduler. layers are updated in the order
// given. A nil logger uses the package logger.
func NewFrameScheduler(refresh RefreshSource, tracker *InputSignalTracker, pipeline *RenderPipeline, layers []Layer, log *slog.Logger) *FrameScheduler {
	if log == nil {
		log = slogger()
	}
	return &FrameScheduler{
		refresh:  refresh,
		tracker:  tracker,
		pipeline: pipeline,
		layers:   layers,
		log:      log,
	}
}

// SetDebug enables per-frame stats logging at debug level.
func (s *FrameScheduler) SetDebug(on bool) { s.debug = on }

// Start requests the first frame. Calling it again, or after Teardown, does
// nothing.
func (s *FrameScheduler) Start() {
	if s.started || s.stopped || s.armed {
		return
	}
	s.arm()
}

func (s *FrameScheduler) arm() {
	s.request = s.refresh.RequestFrame(s.tick)
	s.armed = true
}

// Frame returns the number of ticks run.
func (s *FrameScheduler) Frame() uint64 { return s.frame }

// Stopped reports whether Teardown has run.
func (s *FrameScheduler) Stopped() bool { return s.stopped }

// Stats returns the timings of the last tick.
func (s *FrameScheduler) Stats() frameStats { return s.stats }

func (s *FrameScheduler) tick(screen *ebiten.Image, now time.Duration) {
	s.armed = false
	if s.stopped {
		return
	}
	if !s.started {
		s.started = true
		s.startAt, s.last = now, now
	}

	in := s.tracker.Snapshot()
	if !in.Viewport.Valid() && screen != nil {
		s.tracker.SetViewport(viewportOf(screen.Bounds()))
		in = s.tracker.Snapshot()
	}
	s.frame++
	ctx := FrameContext{
		FrameInput: in,
		Elapsed:    (now - s.startAt).Seconds(),
		Delta:      (now - s.last).Seconds(),
		Frame:      s.frame,
	}
	s.last = now

	start := time.Now()
	failed := 0
	for _, l := range s.layers {
		if err := updateLayer(l, &ctx); err != nil {
			failed++
			s.log.Warn("layer update failed", "layer", l.Name(), "frame", s.frame, "err", err)
		}
		if s.stopped {
			// torn down from inside an update; the rest are disposed
			return
		}
	}
	s.stats = frameStats{update: time.Since(start), failedLayers: failed}

	if in.Viewport != s.pipeline.Viewport() {
		if err := s.pipeline.Resize(in.Viewport); err != nil {
			s.log.Warn("pipeline resize failed, retrying next frame",
				"width", in.Viewport.Width, "height", in.Viewport.Height, "err", err)
		}
	}

	if screen != nil {
		if err := s.render(&ctx, screen); err != nil {
			s.log.Warn("render failed", "frame", s.frame, "err", err)
		} else {
			t := s.pipeline.Timings()
			s.stats.base, s.stats.bloom = t[0], t[1]
		}
	}
	if s.debug {
		s.stats.log(s.log, s.frame)
	}

	if !s.stopped {
		s.arm()
	}
}

// render runs the pipeline, turning a panic into an error so the host keeps
// running.
func (s *FrameScheduler) render(ctx *FrameContext, screen *ebiten.Image) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()
	return s.pipeline.Render(ctx, screen)
}

// Teardown stops the loop, cancels the pending frame, detaches input and
// releases every image. A second call does nothing.
func (s *FrameScheduler) Teardown() {
	if s.stopped {
		return
	}
	s.stopped = true
	if s.armed {
		s.refresh.CancelFrame(s.request)
		s.armed = false
	}
	s.tracker.Detach()
	s.pipeline.Dispose()
	for _, l := range s.layers {
		l.Dispose()
	}
}

func viewportOf(r image.Rectangle) Viewport {
	return Viewport{Width: r.Dx(), Height: r.Dy()}
}
