package device

import (
	"coldchain-monitor/internal/domain/geo"
)

// Device represents a tracking device attached to a shipment.
type Device struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Status           DeviceStatus `json:"status"`
	Battery          float64      `json:"battery"`
	Location         geo.Location `json:"location"`
	AssignedShipment *string      `json:"assignedShipment"`
}

// DeviceStatus represents the operational status of a device
type DeviceStatus string

const (
	StatusOnline  DeviceStatus = "online"
	StatusOffline DeviceStatus = "offline"
)

// IsOnline reports whether the device is currently reporting.
func (d *Device) IsOnline() bool {
	return d.Status == StatusOnline
}

// Clone returns a deep copy safe to hand outside the store.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}
	c := *d
	if d.AssignedShipment != nil {
		id := *d.AssignedShipment
		c.AssignedShipment = &id
	}
	return &c
}
