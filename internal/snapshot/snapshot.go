package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"huddle/pkg/config"
	"huddle/pkg/logger"
	"huddle/pkg/store"
)

// Start launches the periodic snapshot job if enabled. Returns a cancel
// func that stops the scheduler goroutine.
func Start(ctx context.Context, eff config.EffectiveConfigResult, st *store.Store) (context.CancelFunc, error) {
	snap := eff.Config.Snapshot

	if !snap.Enabled {
		logger.Info("snapshot_job_disabled")
		return func() {}, nil
	}
	if !st.Ready() {
		logger.Warn("snapshot_job_no_backing_store")
		return func() {}, nil
	}

	// map empty cron to default every 5 minutes
	cronExpr := snap.Cron
	if cronExpr == "" {
		cronExpr = "*/5 * * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("snapshot_invalid_cron", "cron", snap.Cron)
		return nil, fmt.Errorf("invalid snapshot cron expression: %s", snap.Cron)
	}

	minInterval := snap.MinInterval.Duration()
	if minInterval <= 0 {
		minInterval = 30 * time.Second
	}

	logger.Info("snapshot_job_enabled", "cron", cronExpr, "min_interval", minInterval.String())
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, st, cronExpr, minInterval)
	return cancel, nil
}

// runScheduler computes the next cron tick with gronx and sleeps until it.
// Ticks that arrive before minInterval has elapsed since the last save are
// skipped rather than queued.
func runScheduler(ctx context.Context, st *store.Store, cronExpr string, minInterval time.Duration) {
	var lastSave time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("snapshot_job_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("snapshot_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("snapshot_job_stopping")
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			logger.Info("snapshot_job_stopping")
			return
		}

		if !lastSave.IsZero() && time.Since(lastSave) < minInterval {
			logger.Debug("snapshot_tick_skipped", "since_last", time.Since(lastSave).String())
			continue
		}
		if err := st.SaveSnapshot(); err != nil {
			logger.Error("snapshot_save_failed", "error", err)
			continue
		}
		lastSave = time.Now()
	}
}
