package eventus

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/randalmurphal/eventus/pkg/eventus/observability"
)

// Config configures bus behavior.
type Config struct {
	// Workers is the worker pool size backing the threaded and async
	// publish modes. 0 uses the hardware concurrency hint, minimum 1.
	// Ignored when DisableAsync is set.
	Workers int

	// DisableGC keeps event-type entries in the registry after their last
	// subscriber is removed. With GC enabled (default) the registry's key
	// set only reflects types with at least one live subscriber.
	DisableGC bool

	// DisableAsync skips worker pool creation entirely. PublishThreaded
	// and PublishAsync then dispatch synchronously on the calling
	// goroutine.
	DisableAsync bool

	// Logger receives structured records at defined points: subscribe
	// success, unsubscribe success/failure, publish success/failure, GC
	// removals, and pool task panics. Nil disables logging. A nil or no-op
	// logger never changes dispatch behavior.
	Logger *slog.Logger

	// Metrics records dispatch and pool metrics. Nil means no-op.
	Metrics observability.MetricsRecorder

	// Spans traces synchronous publish calls. Nil means no-op.
	Spans observability.SpanManager
}

// DefaultConfig provides reasonable defaults: hardware-sized worker pool,
// GC enabled, no logging, no metrics.
var DefaultConfig = Config{}

// Bus is an in-process typed publish/subscribe event bus.
//
// A Bus owns all subscriber records registered with it; nothing outlives
// it. Subscribe, unsubscribe, and synchronous publish run on the calling
// goroutine; the threaded and async publish modes run on the bus's worker
// pool. All registry access is serialized by one internal mutex. Handlers
// execute outside that mutex, so a handler may freely call any bus
// operation, including publish, without deadlocking.
type Bus struct {
	config Config
	busID  string

	mu   sync.Mutex
	subs map[Key][]subscriber

	idCounter atomic.Int64
	closed    atomic.Bool

	pool *workerPool

	logger  atomic.Pointer[slog.Logger]
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// NewBus creates a new bus. Close must be called when the bus is no longer
// needed so the worker pool stops and drains.
func NewBus(config Config) *Bus {
	b := &Bus{
		config:  config,
		busID:   uuid.New().String(),
		subs:    make(map[Key][]subscriber),
		metrics: config.Metrics,
		spans:   config.Spans,
	}
	if b.metrics == nil {
		b.metrics = observability.NoopMetrics{}
	}
	if b.spans == nil {
		b.spans = observability.NoopSpanManager{}
	}
	b.SetLogger(config.Logger)

	if !config.DisableAsync {
		b.pool = newWorkerPool(config.Workers, b)
	}
	return b
}

// Close stops the worker pool: the stop signal is raised, already queued
// tasks are drained, and the workers are joined. Asynchronous publishes
// after Close are dropped (and logged); synchronous operations keep
// working against the registry. Close is idempotent.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	if b.pool != nil {
		b.pool.stop()
	}
	return nil
}

// SetLogger replaces the bus's structured logging sink at runtime.
// Passing nil disables logging.
func (b *Bus) SetLogger(logger *slog.Logger) {
	if logger == nil {
		b.logger.Store(nil)
		return
	}
	b.logger.Store(observability.EnrichLogger(logger, b.busID))
}

// log returns the current logger, which may be nil.
func (b *Bus) log() *slog.Logger {
	return b.logger.Load()
}

// nextID allocates the next process-unique subscriber id.
// Ids are monotonic and never reused.
func (b *Bus) nextID() int64 {
	return b.idCounter.Add(1)
}
