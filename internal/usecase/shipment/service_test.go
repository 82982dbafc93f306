package shipment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"coldchain-monitor/internal/domain/device"
	"coldchain-monitor/internal/domain/geo"
	domainShipment "coldchain-monitor/internal/domain/shipment"
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

func strPtr(s string) *string { return &s }

func validRequest() *CreateShipmentRequest {
	return &CreateShipmentRequest{
		ProductName: "Insulin (Lantus)",
		Origin:      &geo.Place{Address: "Mumbai Medical Supplies", Lat: 19.0760, Lng: 72.8777},
		Destination: &geo.Place{Address: "Chennai General Hospital", Lat: 13.0827, Lng: 80.2707},
	}
}

func newStoreWithDevice(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	require.NoError(t, st.Update(func(tx *store.Tx) error {
		return tx.InsertDevice(&device.Device{ID: "DEV-003", Name: "TempTracker Gamma", Status: device.StatusOffline})
	}))
	return st
}

func TestCreateShipmentDefaults(t *testing.T) {
	st := store.New()
	pub := &capturePublisher{}
	svc := NewService(st, pub)

	sh, err := svc.CreateShipment(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "SHP-001", sh.ID)
	assert.Equal(t, domainShipment.StatusInTransit, sh.Status)
	assert.Equal(t, domainShipment.TempRange{Min: 2, Max: 8}, sh.TempRange)
	assert.Zero(t, sh.BreachCount)
	assert.Nil(t, sh.DeviceID)
	assert.False(t, sh.StartTime.IsZero())

	require.Len(t, pub.events, 1)
	assert.Equal(t, notify.EventShipmentNew, pub.events[0].Type)

	second, err := svc.CreateShipment(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "SHP-002", second.ID)
}

func TestCreateShipmentLinksResolvableDevice(t *testing.T) {
	st := newStoreWithDevice(t)
	svc := NewService(st, nil)

	req := validRequest()
	req.DeviceID = strPtr("DEV-003")
	req.TempRange = &domainShipment.TempRange{Min: -2, Max: 4}

	sh, err := svc.CreateShipment(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, sh.DeviceID)
	assert.Equal(t, "DEV-003", *sh.DeviceID)
	assert.Equal(t, domainShipment.TempRange{Min: -2, Max: 4}, sh.TempRange)

	st.View(func(tx *store.Tx) {
		dev, ok := tx.Device("DEV-003")
		require.True(t, ok)
		require.NotNil(t, dev.AssignedShipment)
		assert.Equal(t, sh.ID, *dev.AssignedShipment)
	})
}

func TestCreateShipmentKeepsUnknownDeviceReference(t *testing.T) {
	st := newStoreWithDevice(t)
	svc := NewService(st, nil)

	req := validRequest()
	req.DeviceID = strPtr("DEV-999")

	sh, err := svc.CreateShipment(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, sh.DeviceID)
	assert.Equal(t, "DEV-999", *sh.DeviceID)

	st.View(func(tx *store.Tx) {
		dev, _ := tx.Device("DEV-003")
		assert.Nil(t, dev.AssignedShipment)
	})
}

func TestCreateShipmentValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateShipmentRequest)
	}{
		{name: "missing product", mutate: func(r *CreateShipmentRequest) { r.ProductName = "" }},
		{name: "markup-only product", mutate: func(r *CreateShipmentRequest) { r.ProductName = "<b></b>" }},
		{name: "missing origin", mutate: func(r *CreateShipmentRequest) { r.Origin = nil }},
		{name: "missing destination", mutate: func(r *CreateShipmentRequest) { r.Destination = nil }},
		{name: "missing address", mutate: func(r *CreateShipmentRequest) { r.Destination.Address = "" }},
		{name: "latitude out of range", mutate: func(r *CreateShipmentRequest) { r.Origin.Lat = 91 }},
		{name: "inverted range", mutate: func(r *CreateShipmentRequest) {
			r.TempRange = &domainShipment.TempRange{Min: 8, Max: 2}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.New()
			pub := &capturePublisher{}
			svc := NewService(st, pub)

			req := validRequest()
			tt.mutate(req)

			_, err := svc.CreateShipment(context.Background(), req)
			require.Error(t, err)

			var appErr *appErrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.CodeValidation, appErr.Code)

			st.View(func(tx *store.Tx) {
				assert.Empty(t, tx.Shipments())
			})
			assert.Empty(t, pub.events)
		})
	}
}

func TestCreateShipmentNilRequest(t *testing.T) {
	_, err := NewService(store.New(), nil).CreateShipment(context.Background(), nil)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}
