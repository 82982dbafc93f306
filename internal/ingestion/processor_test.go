package ingestion

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"coldchain-monitor/internal/domain/alert"
	"coldchain-monitor/internal/domain/device"
	"coldchain-monitor/internal/domain/geo"
	"coldchain-monitor/internal/domain/shipment"
	"coldchain-monitor/internal/notify"
	"coldchain-monitor/internal/store"
	appErrors "coldchain-monitor/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (c *capturePublisher) Publish(evt notify.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
}

func (c *capturePublisher) types() []notify.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]notify.EventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

type panickingPublisher struct{}

func (panickingPublisher) Publish(notify.Event) { panic("subscriber exploded") }

var fixedNow = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	shipmentID := "SHP-001"
	require.NoError(t, st.Update(func(tx *store.Tx) error {
		if err := tx.InsertDevice(&device.Device{
			ID:               "DEV-001",
			Name:             "TempTracker Alpha",
			Status:           device.StatusOnline,
			Battery:          92,
			Location:         geo.Location{Lat: 28.6139, Lng: 77.2090},
			AssignedShipment: &shipmentID,
		}); err != nil {
			return err
		}
		deviceID := "DEV-001"
		return tx.InsertShipment(&shipment.Shipment{
			ID:          shipmentID,
			ProductName: "Insulin",
			DeviceID:    &deviceID,
			TempRange:   shipment.DefaultTempRange(),
			Status:      shipment.StatusInTransit,
		})
	}))
	return st
}

func newTestProcessor(st *store.Store, pub notify.Publisher) *Processor {
	seq := 0
	return NewProcessor(st, pub,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("reading-%d", seq)
		}),
	)
}

func reading(temp float64) *ReadingInput {
	return NewReadingInput("DEV-001", "SHP-001", temp, geo.Location{Lat: 27.5, Lng: 76.9}, 88.5)
}

func breachCount(t *testing.T, st *store.Store, id string) int {
	t.Helper()
	var n int
	st.View(func(tx *store.Tx) {
		s, ok := tx.Shipment(id)
		require.True(t, ok)
		n = s.BreachCount
	})
	return n
}

func TestIngestStoresReadingAndUpdatesDevice(t *testing.T) {
	st := seededStore(t)
	pub := &capturePublisher{}
	p := newTestProcessor(st, pub)

	stored, err := p.Ingest(context.Background(), reading(5))
	require.NoError(t, err)
	assert.Equal(t, "reading-1", stored.ID)
	assert.Equal(t, fixedNow, stored.Timestamp)

	st.View(func(tx *store.Tx) {
		require.Len(t, tx.Readings(), 1)
		dev, ok := tx.Device("DEV-001")
		require.True(t, ok)
		assert.Equal(t, geo.Location{Lat: 27.5, Lng: 76.9}, dev.Location)
		assert.Equal(t, 88.5, dev.Battery)
		assert.Empty(t, tx.Alerts())
	})

	assert.Equal(t, []notify.EventType{notify.EventTelemetryUpdate}, pub.types())
}

func TestIngestKeepsCallerTimestamp(t *testing.T) {
	p := newTestProcessor(seededStore(t), nil)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := reading(5)
	in.Timestamp = &ts

	stored, err := p.Ingest(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, ts, stored.Timestamp)
}

func TestIngestCriticalReadingRaisesAlertAndCountsBreach(t *testing.T) {
	st := store.New()
	require.NoError(t, st.Update(func(tx *store.Tx) error {
		return tx.InsertShipment(&shipment.Shipment{
			ID:        "SHP-X",
			TempRange: shipment.TempRange{Min: 2, Max: 8},
			Status:    shipment.StatusInTransit,
		})
	}))
	pub := &capturePublisher{}
	p := newTestProcessor(st, pub)

	res, err := p.Process(context.Background(), NewReadingInput("DEV-404", "SHP-X", 11.0, geo.Location{}, 0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlerted, res.Outcome)
	assert.False(t, res.DeviceUpdated)

	st.View(func(tx *store.Tx) {
		alerts := tx.Alerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, "SHP-X", alerts[0].ShipmentID)
		assert.Equal(t, alert.SeverityCritical, alerts[0].Severity)
		assert.False(t, alerts[0].Acknowledged)
		assert.Equal(t, fixedNow, alerts[0].Timestamp)
	})
	assert.Equal(t, 1, breachCount(t, st, "SHP-X"))
	assert.Equal(t, []notify.EventType{notify.EventAlertNew, notify.EventTelemetryUpdate}, pub.types())
}

func TestIngestBreachCounterCountsOnlyCritical(t *testing.T) {
	st := seededStore(t)
	p := newTestProcessor(st, nil)
	ctx := context.Background()

	temps := []float64{11, 9, 5, -3, 1, 10, 0, 12.5}
	for _, temp := range temps {
		_, err := p.Ingest(ctx, reading(temp))
		require.NoError(t, err)
	}

	// 11, -3, 12.5
	assert.Equal(t, 3, breachCount(t, st, "SHP-001"))

	metrics := p.GetMetrics()
	assert.Equal(t, int64(8), metrics.ReadingsStored)
	assert.Equal(t, int64(3), metrics.CriticalBreaches)
	// 11, 9, -3, 1, 10, 0, 12.5
	assert.Equal(t, int64(7), metrics.AlertsGenerated)
}

func TestIngestAlertsAreMostRecentFirst(t *testing.T) {
	st := seededStore(t)
	p := newTestProcessor(st, nil)
	ctx := context.Background()

	first, err := p.Process(ctx, reading(9))
	require.NoError(t, err)
	second, err := p.Process(ctx, reading(11))
	require.NoError(t, err)

	st.View(func(tx *store.Tx) {
		alerts := tx.Alerts()
		require.Len(t, alerts, 2)
		assert.Equal(t, second.Alert.ID, alerts[0].ID)
		assert.Equal(t, first.Alert.ID, alerts[1].ID)
	})
}

func TestIngestUnknownShipmentIsSoftSkip(t *testing.T) {
	st := seededStore(t)
	pub := &capturePublisher{}
	p := newTestProcessor(st, pub)

	in := reading(15)
	in.ShipmentID = "SHP-999"
	res, err := p.Process(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSoftSkip, res.Outcome)
	assert.Nil(t, res.Alert)

	st.View(func(tx *store.Tx) {
		assert.Len(t, tx.Readings(), 1)
		assert.Len(t, tx.ReadingsForShipment("SHP-999"), 1)
		assert.Empty(t, tx.ReadingsForShipment("SHP-001"))
		assert.Empty(t, tx.Alerts())
	})
	assert.Equal(t, int64(1), p.GetMetrics().SoftSkips)
	assert.Equal(t, []notify.EventType{notify.EventTelemetryUpdate}, pub.types())
}

func TestIngestRejectsMissingIdentifiers(t *testing.T) {
	st := seededStore(t)
	p := newTestProcessor(st, nil)

	in := reading(5)
	in.DeviceID = ""
	_, err := p.Ingest(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))

	st.View(func(tx *store.Tx) {
		assert.Empty(t, tx.Readings())
	})
	assert.Equal(t, int64(1), p.GetMetrics().ReadingsRejected)
}

func TestIngestRejectsMissingMeasurement(t *testing.T) {
	st := seededStore(t)
	pub := &capturePublisher{}
	p := newTestProcessor(st, pub)

	noTemp, err := ParseReading([]byte(`{
		"deviceId": "DEV-001",
		"shipmentId": "SHP-001",
		"location": {"lat": 27.5, "lng": 76.9},
		"battery": 50
	}`))
	require.NoError(t, err)
	_, err = p.Process(context.Background(), noTemp)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
	assert.Contains(t, err.Error(), "temperature")

	noLocation, err := ParseReading([]byte(`{"deviceId": "DEV-001", "shipmentId": "SHP-001", "temperature": 5}`))
	require.NoError(t, err)
	_, err = p.Process(context.Background(), noLocation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location")

	st.View(func(tx *store.Tx) {
		assert.Empty(t, tx.Readings())
		assert.Empty(t, tx.Alerts())
		dev, ok := tx.Device("DEV-001")
		require.True(t, ok)
		assert.Equal(t, geo.Location{Lat: 28.6139, Lng: 77.2090}, dev.Location)
	})
	assert.Empty(t, pub.types())
	assert.Equal(t, int64(2), p.GetMetrics().ReadingsRejected)
}

func TestIngestZeroTemperatureIsAMeasurement(t *testing.T) {
	st := seededStore(t)
	p := newTestProcessor(st, nil)

	res, err := p.Process(context.Background(), reading(0))
	require.NoError(t, err)
	assert.Equal(t, TierWarning, res.Tier)
	assert.Equal(t, 0, breachCount(t, st, "SHP-001"))
}

func TestIngestEmptyShipmentIsSoftSkip(t *testing.T) {
	st := seededStore(t)
	p := newTestProcessor(st, nil)

	in := reading(15)
	in.ShipmentID = ""
	res, err := p.Process(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSoftSkip, res.Outcome)

	st.View(func(tx *store.Tx) {
		assert.Len(t, tx.Readings(), 1)
		assert.Empty(t, tx.Alerts())
	})
}

func TestIngestSurvivesPanickingPublisher(t *testing.T) {
	st := seededStore(t)
	p := newTestProcessor(st, panickingPublisher{})

	_, err := p.Ingest(context.Background(), reading(11))
	require.NoError(t, err)

	st.View(func(tx *store.Tx) {
		assert.Len(t, tx.Readings(), 1)
		assert.Len(t, tx.Alerts(), 1)
	})
	assert.Equal(t, 1, breachCount(t, st, "SHP-001"))
}

// alertPanicPublisher fails only on alert events.
type alertPanicPublisher struct {
	capturePublisher
}

func (a *alertPanicPublisher) Publish(evt notify.Event) {
	if evt.Type == notify.EventAlertNew {
		panic("alert subscriber exploded")
	}
	a.capturePublisher.Publish(evt)
}

func TestIngestAlertPublishPanicStillSendsTelemetry(t *testing.T) {
	st := seededStore(t)
	pub := &alertPanicPublisher{}
	p := newTestProcessor(st, pub)

	_, err := p.Ingest(context.Background(), reading(11))
	require.NoError(t, err)
	assert.Equal(t, []notify.EventType{notify.EventTelemetryUpdate}, pub.types())
}

func TestIngestConcurrentCriticalReadings(t *testing.T) {
	st := seededStore(t)
	p := NewProcessor(st, nil)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Ingest(ctx, reading(11))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, n, breachCount(t, st, "SHP-001"))
	st.View(func(tx *store.Tx) {
		assert.Len(t, tx.Readings(), n)
		assert.Len(t, tx.Alerts(), n)
	})
}
