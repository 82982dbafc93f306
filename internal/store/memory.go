package store

import (
	"fmt"
	"sync"

	"coldchain-monitor/internal/domain/alert"
	"coldchain-monitor/internal/domain/device"
	"coldchain-monitor/internal/domain/shipment"
	"coldchain-monitor/internal/domain/telemetry"
)

// Store is the in-memory single source of truth for devices, shipments,
// telemetry and alerts. All access goes through View or Update so that one
// ingestion runs to completion before the next one starts.
type Store struct {
	mu sync.RWMutex

	devices     []*device.Device
	deviceIndex map[string]*device.Device

	shipments     []*shipment.Shipment
	shipmentIndex map[string]*shipment.Shipment

	// arrival order, append-only
	readings []*telemetry.Reading

	// insertion order; Tx exposes them most-recent-first
	alerts     []*alert.Alert
	alertIndex map[string]*alert.Alert
}

func New() *Store {
	return &Store{
		deviceIndex:   make(map[string]*device.Device),
		shipmentIndex: make(map[string]*shipment.Shipment),
		alertIndex:    make(map[string]*alert.Alert),
	}
}

// View runs fn under a shared lock. Pointers obtained from tx belong to the
// store and must be cloned before they leave fn.
func (s *Store) View(fn func(tx *Tx)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&Tx{s: s})
}

// Update runs fn under the exclusive lock. Mutations made before fn returns
// an error are kept; callers validate first and mutate last.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s})
}

// Tx is a handle on the store valid only inside View or Update.
type Tx struct {
	s *Store
}

func (tx *Tx) Device(id string) (*device.Device, bool) {
	d, ok := tx.s.deviceIndex[id]
	return d, ok
}

// Devices returns devices in provisioning order.
func (tx *Tx) Devices() []*device.Device {
	out := make([]*device.Device, len(tx.s.devices))
	copy(out, tx.s.devices)
	return out
}

func (tx *Tx) InsertDevice(d *device.Device) error {
	if _, exists := tx.s.deviceIndex[d.ID]; exists {
		return fmt.Errorf("%w: %s", device.ErrDeviceAlreadyExists, d.ID)
	}
	tx.s.devices = append(tx.s.devices, d)
	tx.s.deviceIndex[d.ID] = d
	return nil
}

func (tx *Tx) Shipment(id string) (*shipment.Shipment, bool) {
	s, ok := tx.s.shipmentIndex[id]
	return s, ok
}

// Shipments returns shipments in creation order.
func (tx *Tx) Shipments() []*shipment.Shipment {
	out := make([]*shipment.Shipment, len(tx.s.shipments))
	copy(out, tx.s.shipments)
	return out
}

// NextShipmentID returns the identifier the next inserted shipment gets,
// e.g. SHP-003 when two shipments exist.
func (tx *Tx) NextShipmentID() string {
	return fmt.Sprintf("SHP-%03d", len(tx.s.shipments)+1)
}

func (tx *Tx) InsertShipment(s *shipment.Shipment) error {
	if _, exists := tx.s.shipmentIndex[s.ID]; exists {
		return fmt.Errorf("shipment %s already exists", s.ID)
	}
	tx.s.shipments = append(tx.s.shipments, s)
	tx.s.shipmentIndex[s.ID] = s
	return nil
}

func (tx *Tx) AppendReading(r *telemetry.Reading) {
	tx.s.readings = append(tx.s.readings, r)
}

// Readings returns every reading in arrival order.
func (tx *Tx) Readings() []*telemetry.Reading {
	out := make([]*telemetry.Reading, len(tx.s.readings))
	copy(out, tx.s.readings)
	return out
}

// ReadingsForShipment returns the shipment's readings in arrival order.
func (tx *Tx) ReadingsForShipment(shipmentID string) []*telemetry.Reading {
	out := make([]*telemetry.Reading, 0)
	for _, r := range tx.s.readings {
		if r.ShipmentID == shipmentID {
			out = append(out, r)
		}
	}
	return out
}

// LatestReading searches backwards for the newest reading of a shipment.
func (tx *Tx) LatestReading(shipmentID string) (*telemetry.Reading, bool) {
	for i := len(tx.s.readings) - 1; i >= 0; i-- {
		if tx.s.readings[i].ShipmentID == shipmentID {
			return tx.s.readings[i], true
		}
	}
	return nil, false
}

// RecentReadings returns up to n of the newest readings, oldest first.
func (tx *Tx) RecentReadings(n int) []*telemetry.Reading {
	if n <= 0 || n > len(tx.s.readings) {
		n = len(tx.s.readings)
	}
	out := make([]*telemetry.Reading, n)
	copy(out, tx.s.readings[len(tx.s.readings)-n:])
	return out
}

// PrependAlert puts a at the head of the alert sequence.
func (tx *Tx) PrependAlert(a *alert.Alert) {
	tx.s.alerts = append(tx.s.alerts, a)
	tx.s.alertIndex[a.ID] = a
}

func (tx *Tx) Alert(id string) (*alert.Alert, bool) {
	a, ok := tx.s.alertIndex[id]
	return a, ok
}

// Alerts returns all alerts, most recently inserted first.
func (tx *Tx) Alerts() []*alert.Alert {
	n := len(tx.s.alerts)
	out := make([]*alert.Alert, n)
	for i, a := range tx.s.alerts {
		out[n-1-i] = a
	}
	return out
}

// AlertsForShipment returns the shipment's alerts, most recent first.
func (tx *Tx) AlertsForShipment(shipmentID string) []*alert.Alert {
	out := make([]*alert.Alert, 0)
	for i := len(tx.s.alerts) - 1; i >= 0; i-- {
		if tx.s.alerts[i].ShipmentID == shipmentID {
			out = append(out, tx.s.alerts[i])
		}
	}
	return out
}
