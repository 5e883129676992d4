package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/Manemax937/HostelApp/internal/application/retention"
)

// Daily runs the retention sweep once per day at midnight in the configured
// timezone, matching the store-side schedule the sweep was designed for.
type Daily struct {
	sweeper  retention.Service
	location *time.Location
}

func NewDaily(sweeper retention.Service, timezone string) (*Daily, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Daily{sweeper: sweeper, location: loc}, nil
}

// Run blocks until ctx is cancelled, firing the sweep at each local midnight.
// A failed sweep is logged and the next run is scheduled regardless.
func (d *Daily) Run(ctx context.Context) {
	for {
		wait := time.Until(nextMidnight(time.Now().In(d.location)))
		slog.Info("retention sweep scheduled", "in", wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("retention scheduler stopped")
			return
		case <-timer.C:
		}

		if _, err := d.sweeper.Sweep(ctx); err != nil {
			slog.Error("scheduled retention sweep failed", "err", err)
		}
	}
}

// nextMidnight returns the first 00:00 after now, in now's location.
func nextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}
