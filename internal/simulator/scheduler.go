package simulator

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handle controls a running simulation loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the loop and waits for the current tick to finish.
// It is safe to call more than once.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start runs Tick every interval until ctx is done or Stop is called.
func (s *Simulator) Start(ctx context.Context, interval time.Duration) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.log.Info("Simulator started", zap.Duration("interval", interval))
		for {
			select {
			case <-ctx.Done():
				s.log.Info("Simulator stopped")
				return
			case <-ticker.C:
				n, err := s.Tick(ctx)
				if err != nil && !errors.Is(err, context.Canceled) {
					s.log.Error("Simulator tick failed", zap.Int("produced", n), zap.Error(err))
					continue
				}
				s.log.Debug("Simulator tick", zap.Int("produced", n))
			}
		}
	}()

	return h
}
