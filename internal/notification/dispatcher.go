package notification

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const sendTimeout = 15 * time.Second

// Observer is told the outcome of every delivery attempt.
type Observer interface {
	NotificationResult(ok bool)
}

type Dispatcher struct {
	sink     Sink
	log      logrus.FieldLogger
	observer Observer
	queue    chan Message

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink Sink, log logrus.FieldLogger, observer Observer, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}

	d := &Dispatcher{
		sink:     sink,
		log:      log,
		observer: observer,
		queue:    make(chan Message, size),
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := d.sink.Send(ctx, msg)
		cancel()

		if d.observer != nil {
			d.observer.NotificationResult(err == nil)
		}
		if err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{
				"kind":           msg.Kind,
				"appointment_id": msg.AppointmentID,
			}).Warn("notification delivery failed")
		}
	}
}

// Notify never blocks. Messages without a recipient and messages that
// do not fit in the queue are dropped.
func (d *Dispatcher) Notify(msg Message) {
	if msg.To == "" {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.WithField("kind", msg.Kind).Warn("notification dispatcher closed, dropping message")
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.log.WithField("kind", msg.Kind).Warn("notification queue full, dropping message")
	}
}

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

var _ Notifier = (*Dispatcher)(nil)
