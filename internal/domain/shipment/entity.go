package shipment

import (
	"time"

	"coldchain-monitor/internal/domain/geo"
)

// ShipmentStatus represents the status of a shipment
type ShipmentStatus string

const (
	StatusPending   ShipmentStatus = "pending"
	StatusInTransit ShipmentStatus = "in-transit"
	StatusDelivered ShipmentStatus = "delivered"
)

// Default safe range for refrigerated pharmaceuticals.
const (
	DefaultTempMin = 2.0
	DefaultTempMax = 8.0
)

// TempRange is the shipment-specific safe temperature band in °C.
type TempRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultTempRange returns the 2-8°C cold-chain band.
func DefaultTempRange() TempRange {
	return TempRange{Min: DefaultTempMin, Max: DefaultTempMax}
}

// Valid reports whether min does not exceed max.
func (r TempRange) Valid() bool {
	return r.Min <= r.Max
}

// Shipment represents a cold-chain shipment in the domain
type Shipment struct {
	ID          string         `json:"id"`
	ProductName string         `json:"productName"`
	Origin      geo.Place      `json:"origin"`
	Destination geo.Place      `json:"destination"`
	DeviceID    *string        `json:"deviceId"`
	TempRange   TempRange      `json:"tempRange"`
	Status      ShipmentStatus `json:"status"`
	StartTime   time.Time      `json:"startTime"`
	BreachCount int            `json:"breachCount"`
}

// HasDevice reports whether a tracking device is assigned.
func (s *Shipment) HasDevice() bool {
	return s.DeviceID != nil && *s.DeviceID != ""
}

// IsActive reports whether the shipment is in transit.
func (s *Shipment) IsActive() bool {
	return s.Status == StatusInTransit
}

// Clone returns a deep copy safe to hand outside the store.
func (s *Shipment) Clone() *Shipment {
	if s == nil {
		return nil
	}
	c := *s
	if s.DeviceID != nil {
		id := *s.DeviceID
		c.DeviceID = &id
	}
	return &c
}
