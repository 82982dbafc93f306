package device

import (
	"fmt"

	domainDevice "coldchain-monitor/internal/domain/device"
	appErrors "coldchain-monitor/pkg/errors"
	"coldchain-monitor/pkg/utils"
)

const defaultBattery = 100.0

// ValidateRegisterRequest checks the payload before anything is written.
func ValidateRegisterRequest(req *RegisterDeviceRequest) error {
	if req == nil {
		return appErrors.Validation("Invalid input", fmt.Errorf("request body is required"))
	}
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.Validation("Invalid input", err)
	}
	if utils.SanitizeText(req.Name) == "" {
		return appErrors.Validation("Invalid input", fmt.Errorf("name is required"))
	}
	if req.ID != "" && utils.SanitizeID(req.ID) == "" {
		return appErrors.Validation("Invalid device ID", fmt.Errorf("id %q has no usable characters", req.ID))
	}
	return nil
}

// ValidateDeviceStatus accepts only known statuses.
func ValidateDeviceStatus(status domainDevice.DeviceStatus) error {
	switch status {
	case domainDevice.StatusOnline, domainDevice.StatusOffline:
		return nil
	default:
		return appErrors.Validation("Invalid device status", fmt.Errorf("%w: %s", domainDevice.ErrInvalidStatus, status))
	}
}
