package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/domain"
	"github.com/aussiebroadwan/passport/internal/auth/store"
)

// DefaultAuditRetention is how long audit events are kept when no retention
// is configured.
const DefaultAuditRetention = 30 * 24 * time.Hour

// summarisedKinds are the failure kinds counted after every sweep.
var summarisedKinds = []domain.AuditKind{domain.AuditLoginFailed, domain.AuditTokenRejected}

// HousekeepingService periodically prunes audit events older than the
// retention window so the audit database does not grow without bound. Each
// sweep also logs how many failures were recorded during the last interval.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// Clock defaults to time.Now.
	Clock func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. Non-positive interval
// and retention fall back to one hour and DefaultAuditRetention.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = DefaultAuditRetention
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		Clock:     time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. It is non-blocking and should be called
// after migrations have run. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop shuts the worker down and blocks until any in-progress cleanup ends.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
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

func (s *HousekeepingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Cleanup deletes audit events recorded before now minus the retention
// window and returns how many were removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	now := s.now()
	cutoff := now.Add(-s.Retention)

	deleted, err := s.Store.AuditEvents().DeleteAuditEventsBefore(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete expired audit events", "error", err)
		return 0
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted_audit_events", deleted, "cutoff", cutoff)

	since := now.Add(-s.Interval)
	if counts, err := s.Summarise(ctx, since); err != nil {
		s.Logger.Error("failed to summarise audit events", "error", err)
	} else {
		attrs := []any{"since", since}
		for _, kind := range summarisedKinds {
			attrs = append(attrs, string(kind), counts[kind])
		}
		s.Logger.Info("audit summary", attrs...)
	}

	return deleted
}

// Summarise counts the failure events recorded at or after since.
func (s *HousekeepingService) Summarise(ctx context.Context, since time.Time) (map[domain.AuditKind]int64, error) {
	counts := make(map[domain.AuditKind]int64, len(summarisedKinds))
	for _, kind := range summarisedKinds {
		n, err := s.Store.AuditEvents().CountAuditEventsByKind(ctx, kind, since)
		if err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, nil
}
