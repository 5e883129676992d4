package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type notificationStore interface {
	ListIDsOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
	DeleteBatch(ctx context.Context, ids []string) error
}

// Service deletes notification records older than the retention window.
type Service interface {
	// Sweep removes every notification created more than the retention
	// window ago and returns how many were deleted. Store failures propagate
	// as the job's terminal error.
	Sweep(ctx context.Context) (int, error)
}

type service struct {
	notifications notificationStore
	retention     time.Duration
	now           func() time.Time
}

func NewService(notifications notificationStore, retentionDays int) Service {
	return &service{
		notifications: notifications,
		retention:     time.Duration(retentionDays) * 24 * time.Hour,
		now:           time.Now,
	}
}

func (s *service) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.retention)
	ids, err := s.notifications.ListIDsOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list expired notifications: %w", err)
	}
	if len(ids) == 0 {
		slog.Info("retention sweep found nothing to delete")
		return 0, nil
	}
	if err := s.notifications.DeleteBatch(ctx, ids); err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}
	slog.Info("retention sweep complete", "deleted", len(ids), "cutoff", cutoff.UTC().Format(time.RFC3339))
	return len(ids), nil
}
