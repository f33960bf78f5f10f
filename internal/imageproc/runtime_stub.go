//go:build !cgo

package imageproc

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/zlog"
)

var degradedOnce sync.Once

// Startup only reports the degraded mode: no libvips, medium is written as baseline JPEG
func Startup() error {
	degradedOnce.Do(func() { warnDegradedMode(zlog.Logger) })
	return nil
}

func Shutdown() {}

func newEngine() Engine {
	return imagingEngine{}
}

func warnDegradedMode(logger zerolog.Logger) {
	logger.Warn().
		Str("engine", "imaging").
		Msg("Built without cgo: libvips is unavailable, medium derivatives are encoded as baseline JPEG instead of progressive")
}
