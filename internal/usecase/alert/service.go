package alert

import (
	"context"
	"fmt"

	domainAlert "coldchain-monitor/internal/domain/alert"
	"coldchain-monitor/internal/logger"
	"coldchain-monitor/internal/notify"
	"coldchain-monitor/internal/store"
	appErrors "coldchain-monitor/pkg/errors"

	"go.uber.org/zap"
)

// Service implements alert use cases
type Service struct {
	store     *store.Store
	publisher notify.Publisher
}

func NewService(st *store.Store, publisher notify.Publisher) *Service {
	return &Service{store: st, publisher: publisher}
}

// ListAlerts returns every alert, most recent first.
func (s *Service) ListAlerts(ctx context.Context, filter *AlertFilter) []*domainAlert.Alert {
	out := make([]*domainAlert.Alert, 0)
	s.store.View(func(tx *store.Tx) {
		for _, a := range tx.Alerts() {
			if filter.matches(a) {
				out = append(out, a.Clone())
			}
		}
	})
	return out
}

// AcknowledgeAlert marks an alert as seen. Acknowledging twice succeeds.
func (s *Service) AcknowledgeAlert(ctx context.Context, id string) (*domainAlert.Alert, error) {
	var acked *domainAlert.Alert
	alreadyAcked := false
	err := s.store.Update(func(tx *store.Tx) error {
		a, ok := tx.Alert(id)
		if !ok {
			return appErrors.NotFound("Alert not found", fmt.Errorf("%w: %s", domainAlert.ErrAlertNotFound, id))
		}
		alreadyAcked = a.Acknowledged
		a.Acknowledge()
		acked = a.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Alert acknowledged",
		zap.String("alert_id", acked.ID),
		zap.String("shipment_id", acked.ShipmentID),
		zap.Bool("already_acknowledged", alreadyAcked),
		zap.String("event", "alert_acknowledged"),
	)

	if s.publisher != nil {
		s.publisher.Publish(notify.NewEvent(notify.EventAlertUpdated, acked))
	}
	return acked, nil
}
