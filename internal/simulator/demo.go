package simulator

import (
	"context"
	"sync"
	"time"

	"coldchain-monitor/internal/notify"

	"go.uber.org/zap"
)

// Demo switches the continuous demo simulation on and off and runs
// single-shot batches on request.
type Demo struct {
	continuous *Simulator
	singleShot *Simulator
	publisher  notify.Publisher
	interval   time.Duration

	mu     sync.Mutex
	handle *Handle
}

func NewDemo(continuous, singleShot *Simulator, publisher notify.Publisher, interval time.Duration) *Demo {
	return &Demo{
		continuous: continuous,
		singleShot: singleShot,
		publisher:  publisher,
		interval:   interval,
	}
}

// Start begins demo mode. Starting an active demo does nothing.
func (d *Demo) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle != nil {
		return
	}
	d.handle = d.continuous.Start(context.Background(), d.interval)
	d.publish(true)
}

// Stop ends demo mode and announces it, whether or not it was running.
func (d *Demo) Stop() {
	d.mu.Lock()
	h := d.handle
	d.handle = nil
	d.mu.Unlock()

	if h != nil {
		h.Stop()
	}
	d.publish(false)
}

func (d *Demo) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handle != nil
}

// RunOnce ingests a single batch using the single-shot policy.
func (d *Demo) RunOnce(ctx context.Context) (int, error) {
	n, err := d.singleShot.Tick(ctx)
	if err != nil {
		return n, err
	}
	d.singleShot.log.Info("Simulated one batch", zap.Int("readings", n))
	return n, nil
}

func (d *Demo) publish(active bool) {
	if d.publisher == nil {
		return
	}
	d.publisher.Publish(notify.NewEvent(notify.EventDemoStatus, notify.DemoStatus{Active: active}))
}
