package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mesaja/seating/metrics"
	"github.com/mesaja/seating/utils"
)

// Sink delivers events to one external channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}

// Dispatcher fans events out to sinks from a single background goroutine.
// Publish never blocks; a full buffer drops the event.
type Dispatcher struct {
	events   chan Event
	sinks    []Sink
	timeout  time.Duration
	stopChan chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
}

func NewDispatcher(buffer int, timeout time.Duration, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		events:   make(chan Event, buffer),
		sinks:    sinks,
		timeout:  timeout,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (d *Dispatcher) Publish(ev Event) bool {
	if d.stopped.Load() {
		return false
	}
	select {
	case d.events <- ev:
		return true
	default:
		metrics.NotificationsDropped.Inc()
		utils.ErrorLogger.Warnf("Notification buffer full, dropping event %s (%s)", ev.ID, ev.Kind)
		return false
	}
}

func (d *Dispatcher) Start() {
	if !d.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(d.done)
		for {
			select {
			case ev := <-d.events:
				d.deliver(ev)
			case <-d.stopChan:
				d.drain()
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Notification dispatcher started with %d sink(s)", len(d.sinks))
}

// Stop delivers what is already buffered and waits for the worker to exit.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.stopped.Store(true)
		close(d.stopChan)
		if d.started.Load() {
			<-d.done
		}
	})
}

func (d *Dispatcher) drain() {
	for {
		select {
		case ev := <-d.events:
			d.deliver(ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := sink.Deliver(ctx, ev)
		cancel()
		if err != nil {
			metrics.NotificationFailures.WithLabelValues(sink.Name()).Inc()
			utils.ErrorLogger.Errorf("Failed to deliver event %s to %s: %v", ev.ID, sink.Name(), err)
			continue
		}
		metrics.NotificationsDelivered.WithLabelValues(sink.Name()).Inc()
	}
}
