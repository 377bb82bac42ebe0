package rill

import (
	"time"

	"github.com/sirupsen/logrus"
)

// renderStats holds per-frame render metrics.
// Only logged when RunConfig.Debug is true.
type renderStats struct {
	frame         uint64
	ops           int
	dropped       int
	interpretTime time.Duration
}

// debugLog logs render stats at debug level.
func (l *Loop) debugLog(stats renderStats) {
	if !l.cfg.Debug {
		return
	}
	Log.WithFields(logrus.Fields{
		"frame":     stats.frame,
		"ops":       stats.ops,
		"dropped":   stats.dropped,
		"interpret": stats.interpretTime,
	}).Debug("render")
}

// debugMaxOps is the op count above which a single Draw is reported; such
// draws usually come from a draw function accumulating ops across frames.
const debugMaxOps = 10000

// debugCheckOps warns on oversized draws.
func debugCheckOps(d Draw) {
	if n := d.Len(); n > debugMaxOps {
		Log.WithField("ops", n).Warnf("draw has more than %d ops", debugMaxOps)
	}
}
