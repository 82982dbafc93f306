package store

import (
	"testing"
	"time"

	"coldchain-monitor/internal/domain/alert"
	"coldchain-monitor/internal/domain/device"
	"coldchain-monitor/internal/domain/shipment"
	"coldchain-monitor/internal/domain/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertsAreMostRecentFirst(t *testing.T) {
	s := New()
	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.PrependAlert(&alert.Alert{ID: "a1", ShipmentID: "SHP-001"})
		tx.PrependAlert(&alert.Alert{ID: "a2", ShipmentID: "SHP-002"})
		tx.PrependAlert(&alert.Alert{ID: "a3", ShipmentID: "SHP-001"})
		return nil
	}))

	s.View(func(tx *Tx) {
		all := tx.Alerts()
		require.Len(t, all, 3)
		assert.Equal(t, "a3", all[0].ID)
		assert.Equal(t, "a2", all[1].ID)
		assert.Equal(t, "a1", all[2].ID)

		forShipment := tx.AlertsForShipment("SHP-001")
		require.Len(t, forShipment, 2)
		assert.Equal(t, "a3", forShipment[0].ID)
		assert.Equal(t, "a1", forShipment[1].ID)

		found, ok := tx.Alert("a2")
		require.True(t, ok)
		assert.Equal(t, "SHP-002", found.ShipmentID)
	})
}

func TestReadingsKeepArrivalOrder(t *testing.T) {
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Update(func(tx *Tx) error {
		// timestamps deliberately out of order: arrival order wins
		tx.AppendReading(&telemetry.Reading{ID: "r1", ShipmentID: "SHP-001", Timestamp: base.Add(time.Hour)})
		tx.AppendReading(&telemetry.Reading{ID: "r2", ShipmentID: "SHP-002", Timestamp: base})
		tx.AppendReading(&telemetry.Reading{ID: "r3", ShipmentID: "SHP-001", Timestamp: base})
		return nil
	}))

	s.View(func(tx *Tx) {
		ids := func(rs []*telemetry.Reading) []string {
			out := make([]string, 0, len(rs))
			for _, r := range rs {
				out = append(out, r.ID)
			}
			return out
		}
		assert.Equal(t, []string{"r1", "r2", "r3"}, ids(tx.Readings()))
		assert.Equal(t, []string{"r1", "r3"}, ids(tx.ReadingsForShipment("SHP-001")))
		assert.Empty(t, tx.ReadingsForShipment("SHP-404"))
		assert.Equal(t, []string{"r2", "r3"}, ids(tx.RecentReadings(2)))
		assert.Len(t, tx.RecentReadings(10), 3)

		latest, ok := tx.LatestReading("SHP-001")
		require.True(t, ok)
		assert.Equal(t, "r3", latest.ID)

		_, ok = tx.LatestReading("SHP-404")
		assert.False(t, ok)
	})
}

func TestNextShipmentID(t *testing.T) {
	s := New()
	require.NoError(t, s.Update(func(tx *Tx) error {
		assert.Equal(t, "SHP-001", tx.NextShipmentID())
		require.NoError(t, tx.InsertShipment(&shipment.Shipment{ID: tx.NextShipmentID()}))
		assert.Equal(t, "SHP-002", tx.NextShipmentID())
		return nil
	}))
}

func TestInsertDeviceRejectsDuplicate(t *testing.T) {
	s := New()
	err := s.Update(func(tx *Tx) error {
		require.NoError(t, tx.InsertDevice(&device.Device{ID: "DEV-001"}))
		return tx.InsertDevice(&device.Device{ID: "DEV-001"})
	})
	assert.ErrorIs(t, err, device.ErrDeviceAlreadyExists)

	s.View(func(tx *Tx) {
		assert.Len(t, tx.Devices(), 1)
	})
}
