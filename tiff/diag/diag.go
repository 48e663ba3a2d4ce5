// Package diag carries the non-fatal diagnostics the tiff reader, writer,
// and the exif decoder/encoder produce while they elide a bad entry instead
// of aborting. Reading a camera file is expected to encounter the occasional
// malformed Makernote or truncated strip; the policy across this module is
// to log and continue, never to panic or bubble a hard error for those
// cases, and Sink is the one seam that policy is implemented behind.
package diag

import (
	"os"

	"github.com/rs/zerolog"
)

// Sink receives one diagnostic event per elided problem. The zero value of
// Logger is a ready-to-use Sink backed by zerolog, matching the pairing seen
// throughout the retrieval corpus's image-processing code.
type Sink interface {
	Warn(key string, err error)
}

// Logger is the default Sink, writing structured events through zerolog.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger returns a Logger writing to w (os.Stderr if w is nil).
func NewLogger(w *os.File) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

func (l *Logger) Warn(key string, err error) {
	l.zl.Warn().Str("key", key).Err(err).Msg("elided")
}

// Collector is a Sink that accumulates events instead of logging them,
// for callers (tests, for example) that want programmatic
// access to what a read or write elided.
type Collector struct {
	Events []Event
}

type Event struct {
	Key string
	Err error
}

func (c *Collector) Warn(key string, err error) {
	c.Events = append(c.Events, Event{Key: key, Err: err})
}

// Discard silently drops every event; useful as a default Sink in contexts
// (fuzz tests, benchmarks) that don't care about diagnostics at all.
type discard struct{}

func (discard) Warn(string, error) {}

// Discard is the package-level no-op Sink.
var Discard Sink = discard{}
