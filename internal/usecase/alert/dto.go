package alert

import (
	domainAlert "coldchain-monitor/internal/domain/alert"
)

// AlertFilter narrows the alert listing. Zero values match everything.
type AlertFilter struct {
	ShipmentID   string `form:"shipmentId"`
	Severity     string `form:"severity" validate:"omitempty,oneof=warning critical"`
	Acknowledged *bool  `form:"acknowledged"`
}

func (f *AlertFilter) matches(a *domainAlert.Alert) bool {
	if f == nil {
		return true
	}
	if f.ShipmentID != "" && a.ShipmentID != f.ShipmentID {
		return false
	}
	if f.Severity != "" && string(a.Severity) != f.Severity {
		return false
	}
	if f.Acknowledged != nil && a.Acknowledged != *f.Acknowledged {
		return false
	}
	return true
}
