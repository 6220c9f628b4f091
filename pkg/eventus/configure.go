package eventus

import (
	"github.com/randalmurphal/eventus/pkg/eventus/config"
)

// FromConfig builds a bus Config from a loaded configuration map.
//
// Recognized keys:
//
//	workers  int   worker pool size (0 = hardware concurrency)
//	gc       bool  registry garbage collection (default true)
//	async    bool  threaded/async publish modes (default true)
//
// Logger, Metrics, and Spans are runtime objects and are set on the
// returned Config by the caller; the log_level key is read through
// config.Level when building the logger's handler.
func FromConfig(cfg config.Config) Config {
	return Config{
		Workers:      cfg.Int("workers", 0),
		DisableGC:    !cfg.Bool("gc", true),
		DisableAsync: !cfg.Bool("async", true),
	}
}
