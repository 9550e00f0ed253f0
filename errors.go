package backdrop

import (
	"errors"
	"fmt"
)

var (
	// ErrContextUnavailable means the graphics context could not produce the
	// shaders or images the background needs. Mount fails and nothing renders.
	ErrContextUnavailable = errors.New("backdrop: rendering context unavailable")

	// ErrInvalidViewport is returned when a pass is asked to size itself to a
	// zero or negative viewport.
	ErrInvalidViewport = errors.New("backdrop: invalid viewport")

	// ErrInvalidCurve is returned by NewCurve for empty, unordered or
	// non-finite control points.
	ErrInvalidCurve = errors.New("backdrop: invalid parameter curve")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("backdrop: invalid config")

	// ErrNonFiniteState is returned by a layer update that computed NaN or Inf.
	ErrNonFiniteState = errors.New("backdrop: non-finite layer state")

	// ErrNotInitialized is returned when a layer is updated before Init or
	// after Dispose, and when a pipeline renders before its first Resize.
	ErrNotInitialized = errors.New("backdrop: layer not initialized")
)

// LayerError reports a failed per-frame update of a single layer. The layer
// keeps its previous state and is still drawn.
type LayerError struct {
	Layer string
	Err   error
}

func (e *LayerError) Error() string {
	return fmt.Sprintf("backdrop: update %s: %v", e.Layer, e.Err)
}

func (e *LayerError) Unwrap() error { return e.Err }
