package shipment

import "errors"

var (
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrInvalidTempRange  = errors.New("temperature range min must not exceed max")
	ErrProductRequired   = errors.New("product name is required")
	ErrDeviceUnavailable = errors.New("device is unavailable")
)
