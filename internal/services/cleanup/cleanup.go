// Package cleanup runs periodic housekeeping tasks in the background.
package cleanup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one housekeeping pass. It returns the number of items removed.
type Task func(now time.Time) int

// Service runs a Task on a fixed interval until stopped
type Service struct {
	name     string
	interval time.Duration
	task     Task
	log      *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a new cleanup service
func NewService(name string, interval time.Duration, task Task, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		name:     name,
		interval: interval,
		task:     task,
		log:      log.Named("cleanup").With(zap.String("task", name)),
	}
}

// Start begins the cleanup loop. Calling Start on a running service is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				s.RunOnce(now)
			case <-ctx.Done():
				s.log.Debug("cleanup stopped")
				return
			}
		}
	}()

	s.log.Info("cleanup started", zap.Duration("interval", s.interval))
}

// RunOnce performs a single pass immediately.
func (s *Service) RunOnce(now time.Time) int {
	removed := s.task(now)
	if removed > 0 {
		s.log.Info("cleanup pass", zap.Int("removed", removed))
	}
	return removed
}

// Stop stops the cleanup loop and waits for it to exit
func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
