package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesaja/seating/utils"
)

type fakeSink struct {
	name  string
	err   error
	delay time.Duration

	mu       sync.Mutex
	received []Event
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Deliver(ctx context.Context, ev Event) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	s.received = append(s.received, ev)
	s.mu.Unlock()
	return s.err
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received)
}

func TestDispatcherDeliversToAllSinks(t *testing.T) {
	utils.Silence()
	failing := &fakeSink{name: "failing", err: errors.New("chat unreachable")}
	ok := &fakeSink{name: "ok"}

	d := NewDispatcher(8, time.Second, failing, ok)
	d.Start()

	assert.True(t, d.Publish(newEvent(KindSystem, "one", time.Now())))
	assert.True(t, d.Publish(newEvent(KindSystem, "two", time.Now())))
	d.Stop()

	assert.Equal(t, 2, failing.count())
	assert.Equal(t, 2, ok.count())
}

func TestDispatcherPublishDoesNotBlockWhenFull(t *testing.T) {
	utils.Silence()
	d := NewDispatcher(1, time.Second)

	assert.True(t, d.Publish(newEvent(KindSystem, "fits", time.Now())))

	done := make(chan bool, 1)
	go func() { done <- d.Publish(newEvent(KindSystem, "dropped", time.Now())) }()

	select {
	case accepted := <-done:
		assert.False(t, accepted)
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}
}

func TestDispatcherSlowSinkTimesOut(t *testing.T) {
	utils.Silence()
	slow := &fakeSink{name: "slow", delay: time.Second}
	d := NewDispatcher(4, 20*time.Millisecond, slow)
	d.Start()

	d.Publish(newEvent(KindSystem, "late", time.Now()))

	start := time.Now()
	d.Stop()
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 0, slow.count())
}

func TestDispatcherRejectsAfterStop(t *testing.T) {
	utils.Silence()
	sink := &fakeSink{name: "ok"}
	d := NewDispatcher(4, time.Second, sink)
	d.Start()
	d.Stop()
	d.Stop()

	assert.False(t, d.Publish(newEvent(KindSystem, "too late", time.Now())))
	assert.Equal(t, 0, sink.count())
}
