package ingestion

import (
	"fmt"
	"strconv"

	"coldchain-monitor/internal/domain/alert"
	"coldchain-monitor/internal/domain/shipment"
	"coldchain-monitor/internal/domain/telemetry"

	"github.com/google/uuid"
)

// Absolute bounds for the critical tier, independent of a shipment's range.
const (
	CriticalMaxTemp = 10.0
	CriticalMinTemp = 0.0
)

// Tier is the outcome of classifying one temperature.
type Tier int

const (
	TierSafe Tier = iota
	TierWarning
	TierCritical
)

func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierWarning:
		return "warning"
	default:
		return "safe"
	}
}

// Classify maps a temperature to exactly one tier. Critical is checked first;
// all comparisons are strict, so values on a bound are not breaches.
func Classify(temp float64, rng shipment.TempRange) Tier {
	switch {
	case temp > CriticalMaxTemp || temp < CriticalMinTemp:
		return TierCritical
	case temp > rng.Max || temp < rng.Min:
		return TierWarning
	default:
		return TierSafe
	}
}

// Evaluation is the result of checking a reading against its shipment.
type Evaluation struct {
	Tier        Tier
	Alert       *alert.Alert
	BreachDelta int
}

// AlertEngine turns readings into alerts.
type AlertEngine struct {
	newID func() string
}

func NewAlertEngine() *AlertEngine {
	return &AlertEngine{newID: func() string { return uuid.New().String() }}
}

// Evaluate classifies the reading against the shipment's safe range. Only the
// alert id varies between calls with the same inputs.
func (e *AlertEngine) Evaluate(r *telemetry.Reading, s *shipment.Shipment) Evaluation {
	tier := Classify(r.Temperature, s.TempRange)
	if tier == TierSafe {
		return Evaluation{Tier: tier}
	}

	eval := Evaluation{
		Tier: tier,
		Alert: &alert.Alert{
			ID:           e.newID(),
			DeviceID:     r.DeviceID,
			ShipmentID:   r.ShipmentID,
			Type:         alert.TypeTemperature,
			Timestamp:    r.Timestamp,
			Acknowledged: false,
		},
	}

	temp := formatTemp(r.Temperature)
	if tier == TierCritical {
		eval.BreachDelta = 1
		eval.Alert.Severity = alert.SeverityCritical
		if r.Temperature > CriticalMaxTemp {
			eval.Alert.Message = fmt.Sprintf("CRITICAL: Temperature at %s°C - exceeds %s°C limit", temp, formatTemp(CriticalMaxTemp))
		} else {
			eval.Alert.Message = fmt.Sprintf("CRITICAL: Temperature at %s°C - below %s°C limit", temp, formatTemp(CriticalMinTemp))
		}
		return eval
	}

	eval.Alert.Severity = alert.SeverityWarning
	band := fmt.Sprintf("(%s-%s°C)", formatTemp(s.TempRange.Min), formatTemp(s.TempRange.Max))
	if r.Temperature > s.TempRange.Max {
		eval.Alert.Message = fmt.Sprintf("WARNING: Temperature at %s°C - above safe range %s", temp, band)
	} else {
		eval.Alert.Message = fmt.Sprintf("WARNING: Temperature at %s°C - below safe range %s", temp, band)
	}
	return eval
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
