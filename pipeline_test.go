package backdrop

import (
	"errors"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPass records its calls and, as a poolUser, borrows from the pipeline
// pool like the bloom pass does.
type stubPass struct {
	name      string
	log       *[]string
	resizeErr error
	pool      *targetPool
	held      *ebiten.Image
	lastSrc   *ebiten.Image
	lastDst   *ebiten.Image
	disposed  int
}

func (s *stubPass) Name() string { return s.name }
func (s *stubPass) usePool(p *targetPool) { s.pool = p }

func (s *stubPass) Resize(vp Viewport) error {
	*s.log = append(*s.log, "resize:"+s.name)
	if s.resizeErr != nil {
		return s.resizeErr
	}
	if s.pool != nil {
		s.pool.Release(s.held)
		s.held = s.pool.Acquire(vp.Width, vp.Height)
	}
	return nil
}

func (s *stubPass) Render(ctx *FrameContext, src, dst *ebiten.Image) {
	*s.log = append(*s.log, "render:"+s.name)
	s.lastSrc, s.lastDst = src, dst
}

func (s *stubPass) Dispose() {
	s.disposed++
	if s.pool != nil {
		s.pool.Release(s.held)
		s.held = nil
	}
}

func newStubPipeline() (*RenderPipeline, *stubPass, *stubPass, *[]string) {
	var log []string
	base := &stubPass{name: "base", log: &log}
	bloom := &stubPass{name: "bloom", log: &log}
	return NewRenderPipeline(base, bloom), base, bloom, &log
}

func TestPipelineRenderBeforeResize(t *testing.T) {
	p, _, _, _ := newStubPipeline()
	screen := ebiten.NewImage(8, 8)
	defer screen.Deallocate()
	assert.ErrorIs(t, p.Render(&FrameContext{}, screen), ErrNotInitialized)
}

func TestPipelinePassOrder(t *testing.T) {
	p, base, bloom, log := newStubPipeline()
	require.NoError(t, p.Resize(Viewport{Width: 64, Height: 48}))

	var hooked []string
	p.SetHook(func(i int, pass Pass, took time.Duration) {
		hooked = append(hooked, pass.Name())
		assert.GreaterOrEqual(t, took, time.Duration(0))
	})

	screen := ebiten.NewImage(64, 48)
	defer screen.Deallocate()
	*log = nil
	require.NoError(t, p.Render(&FrameContext{}, screen))

	assert.Equal(t, []string{"render:base", "render:bloom"}, *log)
	assert.Equal(t, []string{"base", "bloom"}, hooked)

	// base draws into the intermediate target, bloom reads it and writes the screen
	assert.Nil(t, base.lastSrc)
	assert.NotNil(t, base.lastDst)
	assert.NotSame(t, screen, base.lastDst)
	assert.Same(t, base.lastDst, bloom.lastSrc)
	assert.Same(t, screen, bloom.lastDst)

	names := make([]string, 0, 2)
	for _, pass := range p.Passes() {
		names = append(names, pass.Name())
	}
	assert.Equal(t, []string{"base", "bloom"}, names)
}

func TestPipelineResizeInvalid(t *testing.T) {
	p, _, _, log := newStubPipeline()
	require.NoError(t, p.Resize(Viewport{Width: 64, Height: 48}))
	*log = nil

	for _, vp := range []Viewport{{0, 0}, {-1, 10}, {10, 0}} {
		err := p.Resize(vp)
		assert.ErrorIs(t, err, ErrInvalidViewport, "viewport %+v", vp)
	}
	assert.Empty(t, *log, "passes resized for an invalid viewport")
	assert.Equal(t, Viewport{Width: 64, Height: 48}, p.Viewport())
}

func TestPipelineResizeSameSizeIsNoop(t *testing.T) {
	p, _, _, log := newStubPipeline()
	vp := Viewport{Width: 32, Height: 32}
	require.NoError(t, p.Resize(vp))
	*log = nil
	require.NoError(t, p.Resize(vp))
	assert.Empty(t, *log)
}

func TestPipelineResizeFailureRetries(t *testing.T) {
	p, _, bloom, log := newStubPipeline()
	bloom.resizeErr = errors.New("no memory")
	vp := Viewport{Width: 32, Height: 32}

	require.Error(t, p.Resize(vp))
	assert.Equal(t, Viewport{}, p.Viewport(), "viewport committed despite failure")

	bloom.resizeErr = nil
	*log = nil
	require.NoError(t, p.Resize(vp))
	assert.Equal(t, []string{"resize:base", "resize:bloom"}, *log)
	assert.Equal(t, vp, p.Viewport())
}

func TestPipelinePoolAccounting(t *testing.T) {
	p, _, _, _ := newStubPipeline()
	require.NoError(t, p.Resize(Viewport{Width: 64, Height: 48}))
	// intermediate target plus one per pass
	assert.Equal(t, 3, p.Outstanding())

	require.NoError(t, p.Resize(Viewport{Width: 32, Height: 24}))
	assert.Equal(t, 3, p.Outstanding())

	p.Dispose()
	assert.Equal(t, 0, p.Outstanding())
}

func TestPipelineDisposeTwice(t *testing.T) {
	p, base, bloom, _ := newStubPipeline()
	require.NoError(t, p.Resize(Viewport{Width: 16, Height: 16}))
	p.Dispose()
	p.Dispose()
	assert.Equal(t, 1, base.disposed)
	assert.Equal(t, 1, bloom.disposed)
	assert.ErrorIs(t, p.Resize(Viewport{Width: 16, Height: 16}), ErrNotInitialized)

	screen := ebiten.NewImage(16, 16)
	defer screen.Deallocate()
	assert.ErrorIs(t, p.Render(&FrameContext{}, screen), ErrNotInitialized)
}

func TestBaseRenderPassDrawsInOrder(t *testing.T) {
	var log []string
	cfg := DefaultConfig()
	cam := NewCamera(cfg.Camera)
	a, b := newStubLayer("grid", &log), newStubLayer("stars", &log)
	pass, err := NewBaseRenderPass(cfg, cam, nil, a, b)
	require.NoError(t, err)

	require.ErrorIs(t, pass.Resize(Viewport{}), ErrInvalidViewport)
	require.NoError(t, pass.Resize(Viewport{Width: 40, Height: 20}))
	assert.Equal(t, Viewport{Width: 40, Height: 20}, cam.Viewport())

	dst := ebiten.NewImage(40, 20)
	defer dst.Deallocate()
	pass.Render(&FrameContext{Elapsed: 2}, nil, dst)
	assert.Equal(t, []string{"draw:grid", "draw:stars"}, log)
	assert.InDelta(t, cfg.AmbientIntensity+cfg.EnvironmentIntensity, pass.view.Light, 1e-12)
	assert.Equal(t, 2.0, pass.view.Elapsed)
}

func TestBaseRenderPassBadClearColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClearColor = "#zz"
	_, err := NewBaseRenderPass(cfg, NewCamera(cfg.Camera), nil)
	assert.Error(t, err)
}
