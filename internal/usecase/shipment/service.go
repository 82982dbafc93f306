package shipment

import (
	"context"
	"time"

	domainShipment "coldchain-monitor/internal/domain/shipment"
	"coldchain-monitor/internal/logger"
	"coldchain-monitor/internal/notify"
	"coldchain-monitor/internal/store"
	"coldchain-monitor/pkg/utils"

	"go.uber.org/zap"
)

// Service implements shipment use cases
type Service struct {
	store     *store.Store
	publisher notify.Publisher
	now       func() time.Time
}

// NewService creates a new shipment service
func NewService(st *store.Store, publisher notify.Publisher) *Service {
	return &Service{
		store:     st,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateShipment registers a new in-transit shipment. When the device exists
// it is linked to the shipment; an unknown device id is kept on the shipment
// as given.
func (s *Service) CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*domainShipment.Shipment, error) {
	if err := ValidateCreateRequest(req); err != nil {
		return nil, err
	}

	tempRange := domainShipment.DefaultTempRange()
	if req.TempRange != nil {
		tempRange = *req.TempRange
	}

	origin := *req.Origin
	origin.Address = utils.SanitizeText(origin.Address)
	destination := *req.Destination
	destination.Address = utils.SanitizeText(destination.Address)

	var deviceID *string
	if req.DeviceID != nil {
		if id := utils.SanitizeID(*req.DeviceID); id != "" {
			deviceID = &id
		}
	}

	var created *domainShipment.Shipment
	deviceLinked := false
	err := s.store.Update(func(tx *store.Tx) error {
		sh := &domainShipment.Shipment{
			ID:          tx.NextShipmentID(),
			ProductName: utils.SanitizeText(req.ProductName),
			Origin:      origin,
			Destination: destination,
			DeviceID:    deviceID,
			TempRange:   tempRange,
			Status:      domainShipment.StatusInTransit,
			StartTime:   s.now(),
			BreachCount: 0,
		}
		if err := tx.InsertShipment(sh); err != nil {
			return err
		}

		if deviceID != nil {
			if dev, ok := tx.Device(*deviceID); ok {
				id := sh.ID
				dev.AssignedShipment = &id
				deviceLinked = true
			}
		}

		created = sh.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("shipment_id", created.ID),
		zap.String("product", created.ProductName),
		zap.Bool("device_linked", deviceLinked),
		zap.String("event", "shipment_created"),
	}
	if deviceID != nil {
		fields = append(fields, zap.String("device_id", *deviceID))
	}
	logger.Info("Shipment created", fields...)

	if s.publisher != nil {
		s.publisher.Publish(notify.NewEvent(notify.EventShipmentNew, created))
	}

	return created, nil
}
