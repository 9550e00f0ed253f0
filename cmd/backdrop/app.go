package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/backdrop"
	"github.com/tanema/gween/ease"
)

// routes are the pages of the site. Only "/" carries the background; moving
// to any other page unmounts it and coming back mounts a fresh one.
var routes = []string{"/", "/workforce-augmentation", "/synthos", "/ai-role-mapping", "/build"}

const (
	loadingSeconds = 2.0
	exitSeconds    = 0.8
	fadeInSeconds  = 0.5
	exitScale      = 1.1
	exitBlur       = 20
)

var exitEase = backdrop.CubicBezier(0.43, 0.13, 0.23, 0.96)

type phase uint8

const (
	phaseLoading phase = iota
	phaseExit
	phaseContent
)

// app sequences the loading screen, its exit and route navigation on top of
// a Host.
type app struct {
	host    *backdrop.Host
	cfg     *backdrop.Config
	phase   phase
	elapsed float64
	route   int
}

func newApp(host *backdrop.Host, cfg *backdrop.Config, withLoading bool) *app {
	a := &app{host: host, cfg: cfg}
	host.OnUpdate = a.update
	host.Overlay = a.overlay
	if withLoading {
		a.enterLoading()
	} else {
		a.enterRoute(0)
	}
	return a
}

func (a *app) enterLoading() {
	a.phase = phaseLoading
	a.elapsed = 0
	lc := backdrop.LoadingConfig()
	lc.Seed, lc.Debug = a.cfg.Seed, a.cfg.Debug
	_ = a.host.Mount(lc)
	a.host.SetTransition(backdrop.FadeIn(exitSeconds, exitEase))
}

func (a *app) enterRoute(i int) {
	a.phase = phaseContent
	a.route = i
	if routes[i] != "/" {
		a.host.Unmount()
		a.host.Input.ScrollTo(0)
		return
	}
	_ = a.host.Mount(a.cfg)
	a.host.SetTransition(backdrop.FadeIn(fadeInSeconds, ease.Linear))
}

func (a *app) update() error {
	a.elapsed += 1 / float64(ebiten.TPS())
	switch a.phase {
	case phaseLoading:
		if a.elapsed >= loadingSeconds {
			a.phase = phaseExit
			a.host.SetTransition(backdrop.FadeOut(exitSeconds, exitScale, exitBlur, exitEase))
		}
	case phaseExit:
		if a.host.Transition().Done {
			a.enterRoute(0)
		}
	case phaseContent:
		if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
			a.enterRoute((a.route + 1) % len(routes))
		}
	}
	return nil
}

func (a *app) overlay(screen *ebiten.Image) {
	h := screen.Bounds().Dy()
	var msg string
	switch a.phase {
	case phaseLoading, phaseExit:
		msg = fmt.Sprintf("loading %3.0f%%", min(a.elapsed/loadingSeconds, 1)*100)
	default:
		msg = fmt.Sprintf("%s   [tab] next page", routes[a.route])
		if bg := a.host.Background(); bg != nil {
			msg += fmt.Sprintf("   scroll %.2f", bg.Tracker().Snapshot().Scroll)
		}
	}
	ebitenutil.DebugPrintAt(screen, msg, 8, h-20)
}
