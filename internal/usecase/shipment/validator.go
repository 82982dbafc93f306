package shipment

import (
	"fmt"

	domainShipment "coldchain-monitor/internal/domain/shipment"
	appErrors "coldchain-monitor/pkg/errors"
	"coldchain-monitor/pkg/utils"
)

// ValidateCreateRequest checks the payload before anything is written.
func ValidateCreateRequest(req *CreateShipmentRequest) error {
	if req == nil {
		return appErrors.Validation("Invalid input", fmt.Errorf("request body is required"))
	}
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.Validation("Invalid input", err)
	}
	if utils.SanitizeText(req.ProductName) == "" {
		return appErrors.Validation("Invalid input", domainShipment.ErrProductRequired)
	}
	if req.TempRange != nil && !req.TempRange.Valid() {
		return appErrors.Validation("Invalid temperature range", domainShipment.ErrInvalidTempRange)
	}
	return nil
}
