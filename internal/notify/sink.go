package notify

import (
	"context"
	"encoding/json"
	"time"

	"coldchain-monitor/internal/logger"

	"go.uber.org/zap"
)

const deliverTimeout = 3 * time.Second

// Sink forwards encoded events to an external system.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, evt Event, payload []byte) error
	Close() error
}

// Forward drains sub into sink until ctx is done or the subscription closes.
// Delivery failures are logged and the event is dropped.
func Forward(ctx context.Context, sub *Subscription, sink Sink) {
	defer sub.Close()

	for {
		select {
		case evt, ok := <-sub.C():
			if !ok {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				logger.Error("Failed to encode event",
					zap.String("sink", sink.Name()),
					zap.String("event", string(evt.Type)),
					zap.Error(err),
				)
				continue
			}

			deliverCtx, cancel := context.WithTimeout(ctx, deliverTimeout)
			err = sink.Deliver(deliverCtx, evt, payload)
			cancel()
			if err != nil {
				logger.Warn("Event delivery failed",
					zap.String("sink", sink.Name()),
					zap.String("event", string(evt.Type)),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}
