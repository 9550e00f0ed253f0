// Package backdrop is a real-time animated background renderer for
// [Ebitengine].
//
// A background composites three procedural layers, a star field, a wireframe
// grid plane and a cloud of glowing particles, inside a slowly floating
// group. Two input signals drive it: the normalized pointer position and the
// page scroll progress. Every frame goes through a bloom post-process.
//
// # Quick start
//
// The simplest host is [Host], which implements [ebiten.Game]:
//
//	host := backdrop.NewHost(backdrop.InputConfig{})
//	if err := host.Mount(backdrop.DefaultConfig()); err != nil {
//		log.Print(err) // the host still runs, with no background
//	}
//	ebiten.RunGame(host)
//
// For full control, provide your own [InputSource] and [RefreshSource] and
// call [Mount] directly. Fire the refresh source from your Draw:
//
//	link := backdrop.NewDisplayLink()
//	bg, err := backdrop.Mount(cfg, hub, link)
//	// in Draw:
//	link.Fire(screen)
//	// when the page goes away:
//	bg.Unmount()
//
// # Frame loop
//
// A [FrameScheduler] runs once per refresh. It snapshots the
// [InputSignalTracker], updates the layers in a fixed order (stars, grid,
// particles), resizes the [RenderPipeline] when the viewport changed, renders
// and re-arms itself. A layer whose update fails keeps its previous state for
// that frame; the others carry on.
//
// # Scroll curves
//
// Scroll progress maps to layer parameters through piecewise-linear [Curve]
// values defined in [Config]. The grid tips over from 0 to π/2 as the page
// scrolls, grid and particles scale up, and grid opacity rises then falls.
//
// # Configuration
//
// Every constant lives in [Config], loadable from YAML with [Load].
// [DefaultConfig] is the primary background and [LoadingConfig] the
// stars-only loading variant.
//
// [Ebitengine]: https://ebitengine.org
package backdrop
