package alert

import "time"

type Type string

const (
	TypeTemperature Type = "temperature"
	TypeBattery     Type = "battery"
)

type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is raised when a reading leaves its shipment's safety envelope.
// Acknowledged only moves from false to true.
type Alert struct {
	ID           string    `json:"id"`
	DeviceID     string    `json:"deviceId"`
	ShipmentID   string    `json:"shipmentId"`
	Type         Type      `json:"type"`
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

// Acknowledge marks the alert as seen. Calling it again is a no-op.
func (a *Alert) Acknowledge() {
	a.Acknowledged = true
}

func (a *Alert) IsCritical() bool {
	return a.Severity == SeverityCritical
}

// Clone returns a copy safe to hand outside the store.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
