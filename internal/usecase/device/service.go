package device

import (
	"context"
	"errors"
	"fmt"

	domainDevice "coldchain-monitor/internal/domain/device"
	"coldchain-monitor/internal/logger"
	"coldchain-monitor/internal/store"
	appErrors "coldchain-monitor/pkg/errors"
	"coldchain-monitor/pkg/utils"

	"go.uber.org/zap"
)

// Service implements device use cases
type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// RegisterDevice provisions a device. Without an id the next free DEV-nnn is
// used. New devices are online unless told otherwise.
func (s *Service) RegisterDevice(ctx context.Context, req *RegisterDeviceRequest) (*domainDevice.Device, error) {
	if err := ValidateRegisterRequest(req); err != nil {
		return nil, err
	}

	status := domainDevice.StatusOnline
	if req.Status != "" {
		status = req.Status
	}
	if err := ValidateDeviceStatus(status); err != nil {
		return nil, err
	}

	battery := defaultBattery
	if req.Battery != nil {
		battery = *req.Battery
	}

	dev := &domainDevice.Device{
		ID:      utils.SanitizeID(req.ID),
		Name:    utils.SanitizeText(req.Name),
		Status:  status,
		Battery: battery,
	}
	if req.Location != nil {
		dev.Location = *req.Location
	}

	var created *domainDevice.Device
	err := s.store.Update(func(tx *store.Tx) error {
		if dev.ID == "" {
			dev.ID = nextDeviceID(tx)
		}
		if err := tx.InsertDevice(dev); err != nil {
			return err
		}
		created = dev.Clone()
		return nil
	})
	if err != nil {
		if errors.Is(err, domainDevice.ErrDeviceAlreadyExists) {
			return nil, appErrors.NewAppError(appErrors.CodeConflict, "Device already exists", err)
		}
		return nil, err
	}

	logger.Info("Device registered",
		zap.String("device_id", created.ID),
		zap.String("status", string(created.Status)),
		zap.String("event", "device_registered"),
	)
	return created, nil
}

func nextDeviceID(tx *store.Tx) string {
	for n := len(tx.Devices()) + 1; ; n++ {
		id := fmt.Sprintf("DEV-%03d", n)
		if _, taken := tx.Device(id); !taken {
			return id
		}
	}
}

// ListDevices returns devices in provisioning order.
func (s *Service) ListDevices(ctx context.Context, filter *DeviceFilterRequest) []*domainDevice.Device {
	out := make([]*domainDevice.Device, 0)
	s.store.View(func(tx *store.Tx) {
		for _, d := range tx.Devices() {
			if filter.matches(d) {
				out = append(out, d.Clone())
			}
		}
	})
	return out
}

func (s *Service) GetDevice(ctx context.Context, id string) (*domainDevice.Device, error) {
	var found *domainDevice.Device
	s.store.View(func(tx *store.Tx) {
		if d, ok := tx.Device(id); ok {
			found = d.Clone()
		}
	})
	if found == nil {
		return nil, appErrors.NotFound("Device not found", fmt.Errorf("%w: %s", domainDevice.ErrDeviceNotFound, id))
	}
	return found, nil
}
