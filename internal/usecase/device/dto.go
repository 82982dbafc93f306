package device

import (
	domainDevice "coldchain-monitor/internal/domain/device"
	"coldchain-monitor/internal/domain/geo"
)

// Request DTOs
type RegisterDeviceRequest struct {
	ID       string                    `json:"id" validate:"omitempty,max=32"`
	Name     string                    `json:"name" validate:"required,max=100"`
	Status   domainDevice.DeviceStatus `json:"status" validate:"omitempty,oneof=online offline"`
	Battery  *float64                  `json:"battery" validate:"omitempty,min=0,max=100"`
	Location *geo.Location             `json:"location"`
}

type DeviceFilterRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=online offline"`
	Assigned *bool  `form:"assigned"`
}

func (f *DeviceFilterRequest) matches(d *domainDevice.Device) bool {
	if f == nil {
		return true
	}
	if f.Status != "" && string(d.Status) != f.Status {
		return false
	}
	if f.Assigned != nil && (d.AssignedShipment != nil) != *f.Assigned {
		return false
	}
	return true
}
