package ingestion

import (
	"encoding/json"
	"time"

	"coldchain-monitor/internal/domain/alert"
	"coldchain-monitor/internal/domain/geo"
	"coldchain-monitor/internal/domain/telemetry"
)

// ReadingInput is a telemetry sample as submitted by a device, the simulator
// or the HTTP API. Temperature and location are pointers so an absent field
// is told apart from 0°C or (0,0). Timestamp defaults to the time of ingestion.
type ReadingInput struct {
	DeviceID    string        `json:"deviceId"`
	ShipmentID  string        `json:"shipmentId"`
	Temperature *float64      `json:"temperature"`
	Location    *geo.Location `json:"location"`
	Battery     float64       `json:"battery"`
	Timestamp   *time.Time    `json:"timestamp,omitempty"`
}

// NewReadingInput builds a complete sample.
func NewReadingInput(deviceID, shipmentID string, temperature float64, location geo.Location, battery float64) *ReadingInput {
	return &ReadingInput{
		DeviceID:    deviceID,
		ShipmentID:  shipmentID,
		Temperature: &temperature,
		Location:    &location,
		Battery:     battery,
	}
}

// Outcome describes what the pipeline did with a stored reading.
type Outcome string

const (
	// OutcomeEvaluated: the shipment was found and the reading was safe.
	OutcomeEvaluated Outcome = "evaluated"
	// OutcomeAlerted: the shipment was found and an alert was raised.
	OutcomeAlerted Outcome = "alerted"
	// OutcomeSoftSkip: the shipment is unknown, only the raw reading was kept.
	OutcomeSoftSkip Outcome = "soft_skip"
)

// Result is everything one ingestion produced.
type Result struct {
	Reading       *telemetry.Reading
	Alert         *alert.Alert
	Tier          Tier
	Outcome       Outcome
	DeviceUpdated bool
}

// ParseReading parses a JSON payload to a ReadingInput.
func ParseReading(payload []byte) (*ReadingInput, error) {
	var msg ReadingInput
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
