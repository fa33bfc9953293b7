// Package debug provides conditional debug tracing for pv.
//
// Tracing is enabled by setting the PV_DEBUG environment variable:
//
//	PV_DEBUG=1 pv -data ./data
//
// When enabled, messages go to the shared zerolog logger's output at debug
// level, tagged with component=debug, regardless of logging.level. When
// disabled (default), every function is a no-op.
//
//	defer debug.LogEnterExit("SelectRegion")()
//	debug.Log("cache hit for %s", key)
package debug

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanderheijden86/plateview/pkg/logging"
)

var enabled atomic.Bool

func init() {
	if os.Getenv("PV_DEBUG") != "" {
		enabled.Store(true)
	}
}

// Enabled returns whether debug tracing is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of debug tracing.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// tracer returns the shared logger with its level lowered to debug, so
// PV_DEBUG output is not filtered by the configured level.
func tracer() zerolog.Logger {
	return logging.Logger().Level(zerolog.DebugLevel)
}

func emit(msg string) {
	l := tracer()
	l.Debug().Str("component", "debug").Msg(msg)
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	if !enabled.Load() {
		return
	}
	emit(fmt.Sprintf(format, args...))
}

// LogTiming records how long a named step took.
func LogTiming(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	l := tracer()
	l.Debug().Str("component", "debug").Str("step", name).Dur("took", d).Msg("timing")
}

// LogEnterExit logs function entry and exit with timing.
//
//	func (c *Controller) ApplyRegion(res RegionResult) bool {
//	    defer debug.LogEnterExit("ApplyRegion")()
//	    ...
//	}
func LogEnterExit(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	emit("-> " + name)
	start := time.Now()
	return func() {
		emit(fmt.Sprintf("<- %s (%v)", name, time.Since(start)))
	}
}
