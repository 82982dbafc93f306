package ingestion

import (
	"context"
	"time"

	"coldchain-monitor/internal/domain/telemetry"
	"coldchain-monitor/internal/logger"
	"coldchain-monitor/internal/notify"
	"coldchain-monitor/internal/store"
	appErrors "coldchain-monitor/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Processor runs the telemetry-to-alert pipeline: store the reading, update
// the device, evaluate, store the alert, then notify.
type Processor struct {
	store       *store.Store
	alertEngine *AlertEngine
	publisher   notify.Publisher
	metrics     *MetricsTracker

	now   func() time.Time
	newID func() string
}

type Option func(*Processor)

// WithClock overrides the time source used for missing timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithIDGenerator overrides reading identifiers.
func WithIDGenerator(newID func() string) Option {
	return func(p *Processor) { p.newID = newID }
}

// NewProcessor creates a new telemetry processor
func NewProcessor(st *store.Store, publisher notify.Publisher, opts ...Option) *Processor {
	p := &Processor{
		store:       st,
		alertEngine: NewAlertEngine(),
		publisher:   publisher,
		metrics:     NewMetricsTracker(),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest stores one reading and evaluates it. An unknown shipment is not an
// error: the reading is kept and evaluation is skipped.
func (p *Processor) Ingest(ctx context.Context, in *ReadingInput) (*telemetry.Reading, error) {
	res, err := p.Process(ctx, in)
	if err != nil {
		return nil, err
	}
	return res.Reading, nil
}

// Process is Ingest with the full pipeline result.
func (p *Processor) Process(ctx context.Context, in *ReadingInput) (*Result, error) {
	p.metrics.received()

	if err := ValidateReading(in); err != nil {
		p.metrics.rejected()
		return nil, appErrors.Validation("Invalid telemetry reading", err)
	}
	if err := ctx.Err(); err != nil {
		p.metrics.rejected()
		return nil, err
	}

	start := time.Now()
	timestamp := p.now()
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		timestamp = in.Timestamp.UTC()
	}

	reading := &telemetry.Reading{
		ID:          p.newID(),
		DeviceID:    in.DeviceID,
		ShipmentID:  in.ShipmentID,
		Timestamp:   timestamp,
		Temperature: *in.Temperature,
		Location:    *in.Location,
		Battery:     in.Battery,
	}

	res := &Result{Outcome: OutcomeEvaluated}
	_ = p.store.Update(func(tx *store.Tx) error {
		tx.AppendReading(reading)

		if dev, ok := tx.Device(reading.DeviceID); ok {
			dev.Location = reading.Location
			dev.Battery = reading.Battery
			res.DeviceUpdated = true
		}

		sh, ok := tx.Shipment(reading.ShipmentID)
		if !ok {
			res.Outcome = OutcomeSoftSkip
			return nil
		}

		eval := p.alertEngine.Evaluate(reading, sh)
		res.Tier = eval.Tier
		sh.BreachCount += eval.BreachDelta
		if eval.Alert != nil {
			tx.PrependAlert(eval.Alert)
			res.Alert = eval.Alert
			res.Outcome = OutcomeAlerted
		}
		return nil
	})

	stored := *reading
	res.Reading = &stored
	if res.Alert != nil {
		a := *res.Alert
		res.Alert = &a
	}

	p.metrics.stored(res, time.Since(start), p.now())
	p.log(res)
	p.notify(res)

	return res, nil
}

func (p *Processor) log(res *Result) {
	fields := []zap.Field{
		zap.String("reading_id", res.Reading.ID),
		zap.String("device_id", res.Reading.DeviceID),
		zap.String("shipment_id", res.Reading.ShipmentID),
		zap.Float64("temperature", res.Reading.Temperature),
		zap.String("outcome", string(res.Outcome)),
	}

	switch res.Outcome {
	case OutcomeSoftSkip:
		logger.Debug("Reading stored without evaluation, shipment unknown", fields...)
	case OutcomeAlerted:
		logger.Warn("Temperature alert raised", append(fields,
			zap.String("alert_id", res.Alert.ID),
			zap.String("severity", string(res.Alert.Severity)),
			zap.String("event", "alert_raised"),
		)...)
	default:
		logger.Debug("Reading stored", fields...)
	}
}

// notify hands events to the fan-out. Each publish is guarded on its own so
// a misbehaving publisher cannot suppress the next event or undo the write.
func (p *Processor) notify(res *Result) {
	if p.publisher == nil {
		return
	}
	if res.Alert != nil {
		p.publish(notify.NewEvent(notify.EventAlertNew, res.Alert), res.Reading.ID)
	}
	p.publish(notify.NewEvent(notify.EventTelemetryUpdate, res.Reading), res.Reading.ID)
}

func (p *Processor) publish(evt notify.Event, readingID string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Notification publish panicked",
				zap.String("reading_id", readingID),
				zap.String("event", string(evt.Type)),
				zap.Any("panic", r),
			)
		}
	}()
	p.publisher.Publish(evt)
}

// GetMetrics returns current metrics
func (p *Processor) GetMetrics() IngestMetrics {
	return p.metrics.Snapshot()
}
