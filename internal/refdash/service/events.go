package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
)

// Notifier receives authorization events. The Telegram approver and the
// audit sinks implement it.
type Notifier interface {
	Notify(ctx context.Context, ev *domain.AuthorizationEvent) error
}

// EventPublisher accepts events from state transitions. Publish must not block.
type EventPublisher interface {
	Publish(ev domain.AuthorizationEvent)
}

// Dispatcher delivers events to notifiers on background workers so that no
// table mutation ever waits on network I/O. Each notifier has its own queue
// and worker, so a slow audit sink never holds up the approver prompt.
// Delivery failures are logged and otherwise ignored.
type Dispatcher struct {
	Logger  *slog.Logger
	Timeout time.Duration

	lanes []*lane

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// lane preserves event order for one notifier.
type lane struct {
	notifier Notifier
	name     string
	queue    chan domain.AuthorizationEvent
}

// NewDispatcher builds a dispatcher with a bounded queue per notifier. Nil
// notifiers are skipped.
func NewDispatcher(logger *slog.Logger, queueSize int, timeout time.Duration, notifiers ...Notifier) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	lanes := make([]*lane, 0, len(notifiers))
	for _, n := range notifiers {
		if n == nil {
			continue
		}
		lanes = append(lanes, &lane{
			notifier: n,
			name:     fmt.Sprintf("%T", n),
			queue:    make(chan domain.AuthorizationEvent, queueSize),
		})
	}

	return &Dispatcher{
		Logger:  logger,
		Timeout: timeout,
		lanes:   lanes,
		stopCh:  make(chan struct{}),
	}
}

// Publish enqueues ev for every notifier. A full queue drops the event for
// that notifier only.
func (d *Dispatcher) Publish(ev domain.AuthorizationEvent) {
	for _, l := range d.lanes {
		select {
		case l.queue <- ev:
		default:
			d.Logger.Error("event queue full, dropping event",
				"notifier", l.name,
				"type", ev.Type,
				"status", ev.Status,
			)
		}
	}
}

// Start launches one delivery worker per notifier.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		for _, l := range d.lanes {
			d.wg.Add(1)
			go d.run(l)
		}
		d.Logger.Info("event dispatcher started", "notifiers", len(d.lanes))
	})
}

// Stop drains queued events and waits for the workers to exit.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
		d.wg.Wait()
		d.Logger.Info("event dispatcher stopped")
	})
}

func (d *Dispatcher) run(l *lane) {
	defer d.wg.Done()

	for {
		select {
		case ev := <-l.queue:
			d.deliver(l, ev)
		case <-d.stopCh:
			for {
				select {
				case ev := <-l.queue:
					d.deliver(l, ev)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(l *lane, ev domain.AuthorizationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
	defer cancel()

	if err := l.notifier.Notify(ctx, &ev); err != nil {
		d.Logger.Error("event delivery failed",
			"notifier", l.name,
			"type", ev.Type,
			"error", err,
		)
	}
}
