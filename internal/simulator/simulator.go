package simulator

import (
	"context"
	"sync"
	"time"

	"coldchain-monitor/internal/domain/geo"
	"coldchain-monitor/internal/domain/telemetry"
	"coldchain-monitor/internal/ingestion"
	"coldchain-monitor/internal/logger"
	"coldchain-monitor/internal/store"

	"go.uber.org/zap"
)

// Ingester accepts synthesized readings. *ingestion.Processor satisfies it.
type Ingester interface {
	Ingest(ctx context.Context, in *ingestion.ReadingInput) (*telemetry.Reading, error)
}

// Simulator synthesizes one reading per in-transit shipment with a device
// and feeds it through ingestion.
type Simulator struct {
	store    *store.Store
	ingester Ingester
	policy   Policy
	rng      Rand
	now      func() time.Time
	log      *zap.Logger

	// one tick at a time
	mu sync.Mutex
}

type Option func(*Simulator)

// WithRand replaces the random source, e.g. with a fixed sequence in tests.
func WithRand(r Rand) Option {
	return func(s *Simulator) { s.rng = r }
}

// WithClock overrides the timestamp source for synthesized readings.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

func New(st *store.Store, ingester Ingester, policy Policy, opts ...Option) *Simulator {
	s := &Simulator{
		store:    st,
		ingester: ingester,
		policy:   policy,
		rng:      NewRand(time.Now().UnixNano()),
		now:      func() time.Time { return time.Now().UTC() },
		log:      logger.Named("simulator").With(zap.String("policy", policy.Name)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type target struct {
	shipmentID  string
	deviceID    string
	destination geo.Location
}

type position struct {
	location geo.Location
	battery  float64
}

// Tick runs one pass over every eligible shipment and returns how many
// readings were ingested. Each reading is ingested atomically, so a
// cancelled tick never leaves a shipment half-updated.
func (s *Simulator) Tick(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	produced := 0
	for _, t := range s.targets() {
		if err := ctx.Err(); err != nil {
			return produced, err
		}

		pos, ok := s.position(t.deviceID)
		if !ok {
			s.log.Debug("Device vanished, skipping shipment for this tick",
				zap.String("shipment_id", t.shipmentID),
				zap.String("device_id", t.deviceID),
			)
			continue
		}

		sample := s.policy.Sample(s.rng, pos.location, t.destination, pos.battery)
		ts := s.now()
		in := ingestion.NewReadingInput(t.deviceID, t.shipmentID, sample.Temperature, sample.Location, sample.Battery)
		in.Timestamp = &ts
		if _, err := s.ingester.Ingest(ctx, in); err != nil {
			return produced, err
		}
		produced++
	}

	return produced, nil
}

// targets lists in-transit shipments whose assigned device exists.
func (s *Simulator) targets() []target {
	var out []target
	s.store.View(func(tx *store.Tx) {
		for _, sh := range tx.Shipments() {
			if !sh.IsActive() || !sh.HasDevice() {
				continue
			}
			if _, ok := tx.Device(*sh.DeviceID); !ok {
				s.log.Debug("Assigned device not found, skipping shipment",
					zap.String("shipment_id", sh.ID),
					zap.String("device_id", *sh.DeviceID),
				)
				continue
			}
			out = append(out, target{
				shipmentID:  sh.ID,
				deviceID:    *sh.DeviceID,
				destination: sh.Destination.Location(),
			})
		}
	})
	return out
}

// position reads the device's live state right before sampling so that
// readings ingested since the tick started are taken into account.
func (s *Simulator) position(deviceID string) (position, bool) {
	var pos position
	var ok bool
	s.store.View(func(tx *store.Tx) {
		d, found := tx.Device(deviceID)
		if !found {
			return
		}
		pos = position{location: d.Location, battery: d.Battery}
		ok = true
	})
	return pos, ok
}
