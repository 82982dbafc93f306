package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"coldchain-monitor/internal/logger"

	"go.uber.org/zap"
)

// EventType names an event pushed to dashboard observers.
type EventType string

const (
	EventAlertNew        EventType = "alert:new"
	EventAlertUpdated    EventType = "alert:updated"
	EventTelemetryUpdate EventType = "telemetry:update"
	EventShipmentNew     EventType = "shipment:new"
	EventDemoStatus      EventType = "demo:status"
)

const DefaultBufferSize = 64

// Event is one state change announced by the core.
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType EventType, payload interface{}) Event {
	return Event{Type: eventType, Payload: payload, Timestamp: time.Now().UTC()}
}

// DemoStatus is the payload of demo:status.
type DemoStatus struct {
	Active bool `json:"active"`
}

// Publisher is what the core needs from the fan-out. Publish must not block.
type Publisher interface {
	Publish(evt Event)
}

// Broker fans events out to subscribers over bounded channels. A subscriber
// whose buffer is full misses the event; the publisher never waits.
type Broker struct {
	mu         sync.RWMutex
	subs       map[uint64]*Subscription
	nextID     uint64
	bufferSize int
	closed     bool

	published atomic.Int64
	dropped   atomic.Int64
}

func NewBroker(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Broker{
		subs:       make(map[uint64]*Subscription),
		bufferSize: bufferSize,
	}
}

// Subscription is a receiving end of the broker.
type Subscription struct {
	id     uint64
	name   string
	ch     chan Event
	broker *Broker
	once   sync.Once
}

// C returns the event channel. It is closed when the subscription ends.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

func (s *Subscription) Name() string {
	return s.name
}

// Close detaches the subscription from the broker.
func (s *Subscription) Close() {
	s.broker.unsubscribe(s)
}

// Subscribe registers a named subscriber.
func (b *Broker) Subscribe(name string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		name:   name,
		ch:     make(chan Event, b.bufferSize),
		broker: b,
	}
	if b.closed {
		close(sub.ch)
		return sub
	}
	b.subs[sub.id] = sub

	logger.Debug("Subscriber registered",
		zap.String("subscriber", name),
		zap.Int("buffer_size", b.bufferSize),
	)
	return sub
}

func (b *Broker) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub.id]; !ok {
		return
	}
	delete(b.subs, sub.id)
	sub.once.Do(func() { close(sub.ch) })
}

// Publish delivers evt to every subscriber that has room for it.
func (b *Broker) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	b.published.Add(1)

	for _, sub := range b.subs {
		select {
		case sub.ch <- evt:
		default:
			b.dropped.Add(1)
			logger.Warn("Subscriber buffer full, dropping event",
				zap.String("subscriber", sub.name),
				zap.String("event", string(evt.Type)),
			)
		}
	}
}

// Close ends every subscription. Later publishes are ignored.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		sub.once.Do(func() { close(sub.ch) })
	}
}

// Stats reports publish and drop counters.
func (b *Broker) Stats() (published, dropped int64, subscribers int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.published.Load(), b.dropped.Load(), len(b.subs)
}
