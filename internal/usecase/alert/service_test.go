package alert

import (
	"context"
	"errors"
	"testing"

	domainAlert "coldchain-monitor/internal/domain/alert"
	"coldchain-monitor/internal/notify"
	"coldchain-monitor/internal/store"
	appErrors "coldchain-monitor/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPublisher struct {
	events []notify.Event
}

func (c *countingPublisher) Publish(evt notify.Event) {
	c.events = append(c.events, evt)
}

func seeded(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	require.NoError(t, st.Update(func(tx *store.Tx) error {
		tx.PrependAlert(&domainAlert.Alert{ID: "a1", ShipmentID: "SHP-001", Severity: domainAlert.SeverityWarning})
		tx.PrependAlert(&domainAlert.Alert{ID: "a2", ShipmentID: "SHP-002", Severity: domainAlert.SeverityCritical})
		tx.PrependAlert(&domainAlert.Alert{ID: "a3", ShipmentID: "SHP-001", Severity: domainAlert.SeverityCritical, Acknowledged: true})
		return nil
	}))
	return st
}

func ids(alerts []*domainAlert.Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.ID)
	}
	return out
}

func TestAcknowledgeAlertIsIdempotent(t *testing.T) {
	st := seeded(t)
	pub := &countingPublisher{}
	svc := NewService(st, pub)
	ctx := context.Background()

	first, err := svc.AcknowledgeAlert(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, first.Acknowledged)

	second, err := svc.AcknowledgeAlert(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, second.Acknowledged)

	require.Len(t, pub.events, 2)
	assert.Equal(t, notify.EventAlertUpdated, pub.events[0].Type)

	st.View(func(tx *store.Tx) {
		a, _ := tx.Alert("a1")
		assert.True(t, a.Acknowledged)
	})
}

func TestAcknowledgeUnknownAlert(t *testing.T) {
	st := seeded(t)
	pub := &countingPublisher{}
	svc := NewService(st, pub)

	_, err := svc.AcknowledgeAlert(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainAlert.ErrAlertNotFound))
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
	assert.Empty(t, pub.events)

	st.View(func(tx *store.Tx) {
		for _, a := range tx.Alerts() {
			if a.ID != "a3" {
				assert.False(t, a.Acknowledged)
			}
		}
	})
}

func TestListAlertsMostRecentFirstWithFilters(t *testing.T) {
	svc := NewService(seeded(t), nil)
	ctx := context.Background()

	assert.Equal(t, []string{"a3", "a2", "a1"}, ids(svc.ListAlerts(ctx, nil)))
	assert.Equal(t, []string{"a3", "a1"}, ids(svc.ListAlerts(ctx, &AlertFilter{ShipmentID: "SHP-001"})))
	assert.Equal(t, []string{"a3", "a2"}, ids(svc.ListAlerts(ctx, &AlertFilter{Severity: "critical"})))

	unacked := false
	assert.Equal(t, []string{"a2", "a1"}, ids(svc.ListAlerts(ctx, &AlertFilter{Acknowledged: &unacked})))
}

func TestListAlertsReturnsCopies(t *testing.T) {
	st := seeded(t)
	svc := NewService(st, nil)

	listed := svc.ListAlerts(context.Background(), nil)
	listed[0].Message = "changed"

	st.View(func(tx *store.Tx) {
		a, _ := tx.Alert(listed[0].ID)
		assert.Empty(t, a.Message)
	})
}
