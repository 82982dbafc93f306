package ingestion

import (
	"fmt"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// ValidateReading checks that a reading names its device and carries a
// measurement. An empty or unknown shipment id is not an error; the reading
// is kept and evaluation is skipped. Battery is stored as given.
func ValidateReading(msg *ReadingInput) error {
	if msg == nil {
		return &ValidationError{Field: "reading", Message: "reading is required"}
	}
	if msg.DeviceID == "" {
		return &ValidationError{Field: "deviceId", Message: "deviceId is required"}
	}
	if msg.Temperature == nil {
		return &ValidationError{Field: "temperature", Message: "temperature is required"}
	}
	if msg.Location == nil {
		return &ValidationError{Field: "location", Message: "location is required"}
	}
	return nil
}
