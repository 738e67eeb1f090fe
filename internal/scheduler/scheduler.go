package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/crucial707/asset-audit/internal/snapshot"
	"github.com/robfig/cron/v3"
)

// warmTimeout bounds one scheduled full-inventory refetch.
const warmTimeout = 5 * time.Minute

// RunSnapshotWarmer forces a snapshot refresh on the given cron schedule so
// the first dashboard load of the morning doesn't pay the full paginated
// fetch. The cache stays pull-based; the warmer is just another caller
// asking for a forced refresh. Returns the started cron so callers can
// Stop it on shutdown.
func RunSnapshotWarmer(cronExpr string, cache *snapshot.Cache) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
		defer cancel()
		if _, err := cache.Get(ctx, true); err != nil {
			slog.Warn("snapshot warm failed", "error", err)
			return
		}
		slog.Info("snapshot warmed", "cron", cronExpr)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
