package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerFansOutToEverySubscriber(t *testing.T) {
	b := NewBroker(4)
	defer b.Close()

	first := b.Subscribe("first")
	second := b.Subscribe("second")

	b.Publish(NewEvent(EventShipmentNew, "SHP-001"))

	for _, sub := range []*Subscription{first, second} {
		select {
		case evt := <-sub.C():
			assert.Equal(t, EventShipmentNew, evt.Type)
			assert.Equal(t, "SHP-001", evt.Payload)
		case <-time.After(time.Second):
			t.Fatalf("%s did not receive event", sub.Name())
		}
	}
}

func TestBrokerDropsWhenSubscriberIsFull(t *testing.T) {
	b := NewBroker(1)
	defer b.Close()

	slow := b.Subscribe("slow")

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(NewEvent(EventTelemetryUpdate, i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	published, dropped, subs := b.Stats()
	assert.Equal(t, int64(10), published)
	assert.Equal(t, int64(9), dropped)
	assert.Equal(t, 1, subs)

	evt := <-slow.C()
	assert.Equal(t, 0, evt.Payload)
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	b := NewBroker(1)
	sub := b.Subscribe("once")

	sub.Close()
	sub.Close()
	b.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)

	// publishing after close is a no-op
	b.Publish(NewEvent(EventAlertNew, nil))
	late := b.Subscribe("late")
	_, ok = <-late.C()
	assert.False(t, ok)
}

type recordingSink struct {
	mu       sync.Mutex
	events   []EventType
	failures int
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(_ context.Context, evt Event, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if evt.Type == EventDemoStatus {
		s.failures++
		return errors.New("sink unavailable")
	}
	s.events = append(s.events, evt.Type)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) delivered() []EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EventType(nil), s.events...)
}

func TestForwardKeepsGoingAfterDeliveryFailure(t *testing.T) {
	b := NewBroker(8)
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	finished := make(chan struct{})
	sub := b.Subscribe(sink.Name())
	go func() {
		Forward(ctx, sub, sink)
		close(finished)
	}()

	b.Publish(NewEvent(EventDemoStatus, DemoStatus{Active: true}))
	b.Publish(NewEvent(EventAlertNew, "a1"))

	require.Eventually(t, func() bool {
		return len(sink.delivered()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []EventType{EventAlertNew}, sink.delivered())

	b.Close()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Forward did not return after broker close")
	}
}
