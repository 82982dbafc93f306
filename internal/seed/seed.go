package seed

import (
	"fmt"
	"math"
	"time"

	"coldchain-monitor/internal/domain/alert"
	"coldchain-monitor/internal/domain/device"
	"coldchain-monitor/internal/domain/geo"
	"coldchain-monitor/internal/domain/shipment"
	"coldchain-monitor/internal/domain/telemetry"
	"coldchain-monitor/internal/logger"
	"coldchain-monitor/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Rand matches simulator.Rand; seeding draws the history temperatures from it.
type Rand interface {
	Float64() float64
}

const (
	HistoryPoints   = 30
	historyInterval = 5 * time.Minute
)

var (
	delhi   = geo.Place{Address: "Delhi Pharma Warehouse", Lat: 28.6139, Lng: 77.2090}
	mumbai  = geo.Place{Address: "Mumbai Central Hospital", Lat: 19.0760, Lng: 72.8777}
	mumbaiS = geo.Place{Address: "Mumbai Medical Supplies", Lat: 19.0760, Lng: 72.8777}
	chennai = geo.Place{Address: "Chennai General Hospital", Lat: 13.0827, Lng: 80.2707}
)

func strPtr(s string) *string { return &s }

// Fleet provisions the demo fleet: three devices, two in-transit shipments,
// five sample alerts and a 30-point telemetry history per shipment.
func Fleet(st *store.Store, rng Rand, now time.Time) error {
	err := st.Update(func(tx *store.Tx) error {
		devices := []*device.Device{
			{ID: "DEV-001", Name: "TempTracker Alpha", Status: device.StatusOnline, Battery: 92, Location: delhi.Location(), AssignedShipment: strPtr("SHP-001")},
			{ID: "DEV-002", Name: "TempTracker Beta", Status: device.StatusOnline, Battery: 78, Location: mumbai.Location(), AssignedShipment: strPtr("SHP-002")},
			{ID: "DEV-003", Name: "TempTracker Gamma", Status: device.StatusOffline, Battery: 45, Location: chennai.Location()},
		}
		for _, d := range devices {
			if err := tx.InsertDevice(d); err != nil {
				return err
			}
		}

		shipments := []*shipment.Shipment{
			{
				ID:          "SHP-001",
				ProductName: "COVID-19 Vaccine (Pfizer)",
				Origin:      delhi,
				Destination: mumbai,
				DeviceID:    strPtr("DEV-001"),
				TempRange:   shipment.DefaultTempRange(),
				Status:      shipment.StatusInTransit,
				StartTime:   now.Add(-5 * time.Hour),
				BreachCount: 2,
			},
			{
				ID:          "SHP-002",
				ProductName: "Insulin (Lantus)",
				Origin:      mumbaiS,
				Destination: chennai,
				DeviceID:    strPtr("DEV-002"),
				TempRange:   shipment.DefaultTempRange(),
				Status:      shipment.StatusInTransit,
				StartTime:   now.Add(-2 * time.Hour),
				BreachCount: 1,
			},
		}
		for _, s := range shipments {
			if err := tx.InsertShipment(s); err != nil {
				return err
			}
		}

		// oldest first so the newest ends up at the head
		samples := []struct {
			device, shipment string
			typ              alert.Type
			severity         alert.Severity
			message          string
			age              time.Duration
			acked            bool
		}{
			{"DEV-001", "SHP-001", alert.TypeTemperature, alert.SeverityWarning, "Temperature reached 8.5°C - above safe range", time.Hour, false},
			{"DEV-001", "SHP-001", alert.TypeTemperature, alert.SeverityCritical, "Temperature spike to 11.2°C - critical breach", 30 * time.Minute, false},
			{"DEV-002", "SHP-002", alert.TypeTemperature, alert.SeverityWarning, "Temperature dropped to 1.5°C - below safe range", 15 * time.Minute, true},
			{"DEV-002", "SHP-002", alert.TypeBattery, alert.SeverityWarning, "Device battery at 20% - charge soon", 10 * time.Minute, false},
			{"DEV-001", "SHP-001", alert.TypeTemperature, alert.SeverityCritical, "Temperature at 10.8°C - critical threshold exceeded", 5 * time.Minute, false},
		}
		for _, a := range samples {
			tx.PrependAlert(&alert.Alert{
				ID:           uuid.New().String(),
				DeviceID:     a.device,
				ShipmentID:   a.shipment,
				Type:         a.typ,
				Severity:     a.severity,
				Message:      a.message,
				Timestamp:    now.Add(-a.age),
				Acknowledged: a.acked,
			})
		}

		for i := HistoryPoints; i >= 1; i-- {
			ts := now.Add(-time.Duration(i) * historyInterval)
			step := float64(i)
			tx.AppendReading(&telemetry.Reading{
				ID:          uuid.New().String(),
				DeviceID:    "DEV-001",
				ShipmentID:  "SHP-001",
				Timestamp:   ts,
				Temperature: geo.RoundTo(4+rng.Float64()*4, 1),
				Location:    geo.Location{Lat: delhi.Lat - step*0.03, Lng: delhi.Lng - step*0.015},
				Battery:     math.Max(70, 92-step),
			})
			tx.AppendReading(&telemetry.Reading{
				ID:          uuid.New().String(),
				DeviceID:    "DEV-002",
				ShipmentID:  "SHP-002",
				Timestamp:   ts,
				Temperature: geo.RoundTo(3+rng.Float64()*3, 1),
				Location:    geo.Location{Lat: mumbai.Lat - step*0.02, Lng: mumbai.Lng + step*0.025},
				Battery:     math.Max(55, 78-step),
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed fleet: %w", err)
	}

	logger.Info("Demo fleet seeded",
		zap.Int("devices", 3),
		zap.Int("shipments", 2),
		zap.Int("readings", HistoryPoints*2),
	)
	return nil
}
