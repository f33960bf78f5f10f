//go:build cgo

package imageproc

import (
	"errors"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/wb-go/wbf/zlog"
)

// govips panics on Startup after Shutdown, so a stopped runtime stays stopped
var errRuntimeStopped = errors.New("libvips runtime was shut down and cannot be restarted")

type vipsLifecycle struct {
	mu      sync.Mutex
	started bool
	stopped bool
}

func (l *vipsLifecycle) start(startup func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return errRuntimeStopped
	}
	if !l.started {
		startup()
		l.started = true
	}
	return nil
}

func (l *vipsLifecycle) stop(shutdown func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return
	}
	shutdown()
	l.started = false
	l.stopped = true
}

var vipsRuntime vipsLifecycle

// Startup initializes libvips once per process
func Startup() error {
	return vipsRuntime.start(startVips)
}

func Shutdown() {
	vipsRuntime.stop(vips.Shutdown)
}

func startVips() {
	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		switch level {
		case vips.LogLevelError, vips.LogLevelCritical:
			zlog.Logger.Error().Str("domain", domain).Msg(msg)
		default:
			zlog.Logger.Warn().Str("domain", domain).Msg(msg)
		}
	}, vips.LogLevelWarning)

	vips.Startup(&vips.Config{
		MaxCacheMem:  50 * 1024 * 1024,
		MaxCacheSize: 100,
	})
}

func newEngine() Engine {
	return vipsEngine{}
}
