package shipment

import (
	"coldchain-monitor/internal/domain/geo"
	domainShipment "coldchain-monitor/internal/domain/shipment"
)

// Request DTOs
type CreateShipmentRequest struct {
	ProductName string                    `json:"productName" validate:"required,max=200"`
	Origin      *geo.Place                `json:"origin" validate:"required"`
	Destination *geo.Place                `json:"destination" validate:"required"`
	DeviceID    *string                   `json:"deviceId" validate:"omitempty,max=32"`
	TempRange   *domainShipment.TempRange `json:"tempRange" validate:"omitempty"`
}
