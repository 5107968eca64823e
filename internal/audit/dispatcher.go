package audit

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type Event struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Recorder persists one audit event.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	recorder Recorder
	log      logrus.FieldLogger
	queue    chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(recorder Recorder, log logrus.FieldLogger, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}

	d := &Dispatcher{
		recorder: recorder,
		log:      log,
		queue:    make(chan Event, size),
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.recorder.Record(context.Background(), ev); err != nil {
			d.log.WithError(err).
				WithField("action", ev.Action).
				Warn("audit write failed")
		}
	}
}

// Dispatch never blocks the caller. When the queue is full the event is
// dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.WithField("action", ev.Action).Warn("audit dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queue to drain or ctx
// to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
