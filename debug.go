package backdrop

import (
	"log/slog"
	"time"
)

// frameStats holds per-frame timing metrics.
// Only logged when the background runs with Config.Debug.
type frameStats struct {
	update       time.Duration
	base         time.Duration
	bloom        time.Duration
	failedLayers int
}

// Total returns the summed frame time.
func (f frameStats) Total() time.Duration {
	return f.update + f.base + f.bloom
}

// log writes the stats at debug level.
func (f frameStats) log(l *slog.Logger, frame uint64) {
	l.Debug("frame",
		"n", frame,
		"update", f.update,
		"base", f.base,
		"bloom", f.bloom,
		"total", f.Total(),
		"failed_layers", f.failedLayers,
	)
}
