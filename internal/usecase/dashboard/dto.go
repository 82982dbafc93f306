package dashboard

import (
	domainAlert "coldchain-monitor/internal/domain/alert"
	"coldchain-monitor/internal/domain/geo"
	domainShipment "coldchain-monitor/internal/domain/shipment"
	"coldchain-monitor/internal/domain/telemetry"
)

// Response DTOs
type DashboardStats struct {
	ActiveShipments int     `json:"activeShipments"`
	DevicesOnline   int     `json:"devicesOnline"`
	TotalDevices    int     `json:"totalDevices"`
	AlertCount      int     `json:"alertCount"`
	TotalBreaches   int     `json:"totalBreaches"`
	AvgTemp         float64 `json:"avgTemp"`
}

// ShipmentSummary is a shipment annotated with its latest reading.
type ShipmentSummary struct {
	domainShipment.Shipment
	LastTemperature *float64      `json:"lastTemperature"`
	LastLocation    *geo.Location `json:"lastLocation"`
}

// ShipmentDetail is a shipment with its full telemetry and alert history.
type ShipmentDetail struct {
	domainShipment.Shipment
	Telemetry []*telemetry.Reading  `json:"telemetry"`
	Alerts    []*domainAlert.Alert `json:"alerts"`
}

// TelemetryFilter narrows the global telemetry listing.
type TelemetryFilter struct {
	ShipmentID string `form:"shipmentId"`
	DeviceID   string `form:"deviceId"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=1000"`
}
