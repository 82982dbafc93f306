package telemetry

import (
	"time"

	"coldchain-monitor/internal/domain/geo"
)

// Reading is one immutable sensor sample from a tracking device.
type Reading struct {
	ID          string       `json:"id"`
	DeviceID    string       `json:"deviceId"`
	ShipmentID  string       `json:"shipmentId"`
	Timestamp   time.Time    `json:"timestamp"`
	Temperature float64      `json:"temperature"`
	Location    geo.Location `json:"location"`
	Battery     float64      `json:"battery"`
}

// Clone returns a copy safe to hand outside the store.
func (r *Reading) Clone() *Reading {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
