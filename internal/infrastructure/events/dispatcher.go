// Package events delivers CLI notifications (user.login, user.logout,
// user.signup) without ever blocking the command that raised them.
package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Event is a single notification.
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Timestamp     time.Time `json:"timestamp"`
	ClientVersion string    `json:"client_version,omitempty"`
}

// Sink receives events on the dispatcher goroutine.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// Config controls a Dispatcher.
type Config struct {
	BufferSize    int
	ClientVersion string
	// RateLimit caps deliveries per second. Zero means unlimited.
	RateLimit float64
}

// Dispatcher queues events for a Sink on a single worker goroutine.
// Notify drops events when the queue is full or the dispatcher is closed.
type Dispatcher struct {
	cfg       Config
	sink      Sink
	logger    *slog.Logger
	limiter   *rate.Limiter
	ch        chan Event
	done      chan struct{}
	finished  chan struct{}
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once

	// ctx is cancelled when Close gives up waiting, aborting in-flight sends.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher starts a dispatcher delivering to sink.
func NewDispatcher(cfg Config, sink Sink, logger *slog.Logger) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NopSink{}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		cfg:      cfg,
		sink:     sink,
		logger:   logger,
		limiter:  rate.NewLimiter(limit, 1),
		ch:       make(chan Event, cfg.BufferSize),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}

	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer close(d.finished)

	for {
		select {
		case event := <-d.ch:
			d.emit(event)
		case <-d.done:
			for {
				select {
				case event := <-d.ch:
					d.emit(event)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) emit(event Event) {
	if err := d.limiter.Wait(d.ctx); err != nil {
		d.logger.Debug("event abandoned", "event", event.Name, "error", err)
		return
	}
	if err := d.sink.Emit(d.ctx, event); err != nil {
		d.logger.Debug("event delivery failed",
			"event", event.Name,
			"event_id", event.ID,
			"error", err)
	}
}

// Notify queues a named event. It never blocks.
func (d *Dispatcher) Notify(name string) {
	if d == nil || d.closed.Load() {
		return
	}

	event := Event{
		ID:            uuid.NewString(),
		Name:          name,
		Timestamp:     time.Now().UTC(),
		ClientVersion: d.cfg.ClientVersion,
	}

	select {
	case d.ch <- event:
	default:
		d.dropped.Add(1)
		d.logger.Debug("event dropped, queue full", "event", name)
	}
}

// Close stops accepting events and waits up to timeout for queued ones
// to be delivered. Events still pending after timeout are abandoned.
func (d *Dispatcher) Close(timeout time.Duration) {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-d.finished:
		case <-timer.C:
			d.logger.Debug("event flush timed out", "pending", len(d.ch))
			d.cancel()
			<-d.finished
		}
		d.cancel()
	})
}

// Dropped returns how many events were discarded.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
