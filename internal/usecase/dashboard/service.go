package dashboard

import (
	"context"
	"fmt"

	domainAlert "coldchain-monitor/internal/domain/alert"
	"coldchain-monitor/internal/domain/geo"
	domainShipment "coldchain-monitor/internal/domain/shipment"
	"coldchain-monitor/internal/domain/telemetry"
	"coldchain-monitor/internal/store"
	appErrors "coldchain-monitor/pkg/errors"
)

// AvgTempWindow is how many of the newest readings feed the average.
const AvgTempWindow = 10

// Service computes read-side views. Nothing is cached; every call
// recomputes from the store.
type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) GetDashboardStats(ctx context.Context) *DashboardStats {
	stats := &DashboardStats{}
	s.store.View(func(tx *store.Tx) {
		for _, sh := range tx.Shipments() {
			if sh.IsActive() {
				stats.ActiveShipments++
			}
			stats.TotalBreaches += sh.BreachCount
		}

		devices := tx.Devices()
		stats.TotalDevices = len(devices)
		for _, d := range devices {
			if d.IsOnline() {
				stats.DevicesOnline++
			}
		}

		for _, a := range tx.Alerts() {
			if !a.Acknowledged {
				stats.AlertCount++
			}
		}

		stats.AvgTemp = averageTemperature(tx.RecentReadings(AvgTempWindow))
	})
	return stats
}

func averageTemperature(readings []*telemetry.Reading) float64 {
	if len(readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range readings {
		sum += r.Temperature
	}
	return geo.RoundTo(sum/float64(len(readings)), 1)
}

// GetShipments lists shipments in creation order with their latest reading.
func (s *Service) GetShipments(ctx context.Context) []*ShipmentSummary {
	out := make([]*ShipmentSummary, 0)
	s.store.View(func(tx *store.Tx) {
		for _, sh := range tx.Shipments() {
			summary := &ShipmentSummary{Shipment: *sh.Clone()}
			if last, ok := tx.LatestReading(sh.ID); ok {
				temp := last.Temperature
				loc := last.Location
				summary.LastTemperature = &temp
				summary.LastLocation = &loc
			}
			out = append(out, summary)
		}
	})
	return out
}

// GetShipment returns one shipment with its readings in arrival order and
// its alerts most recent first.
func (s *Service) GetShipment(ctx context.Context, id string) (*ShipmentDetail, error) {
	var detail *ShipmentDetail
	s.store.View(func(tx *store.Tx) {
		sh, ok := tx.Shipment(id)
		if !ok {
			return
		}
		detail = &ShipmentDetail{
			Shipment:  *sh.Clone(),
			Telemetry: cloneReadings(tx.ReadingsForShipment(id)),
			Alerts:    cloneAlerts(tx.AlertsForShipment(id)),
		}
	})
	if detail == nil {
		return nil, appErrors.NotFound("Shipment not found", fmt.Errorf("%w: %s", domainShipment.ErrShipmentNotFound, id))
	}
	return detail, nil
}

// GetTelemetry returns readings in arrival order. With a limit, only the
// newest matching readings are kept.
func (s *Service) GetTelemetry(ctx context.Context, filter *TelemetryFilter) []*telemetry.Reading {
	if filter == nil {
		filter = &TelemetryFilter{}
	}

	var matched []*telemetry.Reading
	s.store.View(func(tx *store.Tx) {
		for _, r := range tx.Readings() {
			if filter.ShipmentID != "" && r.ShipmentID != filter.ShipmentID {
				continue
			}
			if filter.DeviceID != "" && r.DeviceID != filter.DeviceID {
				continue
			}
			matched = append(matched, r)
		}
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[len(matched)-filter.Limit:]
	}
	return cloneReadings(matched)
}

func cloneReadings(in []*telemetry.Reading) []*telemetry.Reading {
	out := make([]*telemetry.Reading, 0, len(in))
	for _, r := range in {
		out = append(out, r.Clone())
	}
	return out
}

func cloneAlerts(in []*domainAlert.Alert) []*domainAlert.Alert {
	out := make([]*domainAlert.Alert, 0, len(in))
	for _, a := range in {
		out = append(out, a.Clone())
	}
	return out
}
