package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/store"
)

// HousekeepingService periodically evicts dead pending authorizations and
// expired sessions.
type HousekeepingService struct {
	Pending  store.PendingAuthorizations
	Sessions *SessionService
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 30 seconds.
func NewHousekeepingService(pending store.PendingAuthorizations, sessions *SessionService, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &HousekeepingService{
		Pending:  pending,
		Sessions: sessions,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking. Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one sweep. Each step is independent: a failure in one does
// not stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	if s.Pending != nil {
		n, err := s.Pending.Sweep(ctx, now)
		if err != nil {
			s.Logger.Error("failed to sweep pending authorizations", "error", err)
		} else if n > 0 {
			s.Logger.Debug("swept pending authorizations", "count", n)
		}
	}

	if s.Sessions != nil {
		n, err := s.Sessions.DeleteExpired(ctx)
		if err != nil {
			s.Logger.Error("failed to delete expired sessions", "error", err)
		} else if n > 0 {
			s.Logger.Debug("deleted expired sessions", "count", n)
		}
	}
}
