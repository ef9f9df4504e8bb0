package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/tennis-stats/internal/cache"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// syncRankings imports rankings for each association in turn. A failed
// association is logged and does not stop the others. The tick is skipped
// when another import holds the gate.
func syncRankings(ctx context.Context, deps Deps, associations []tennis.Association, logger *slog.Logger) {
	if deps.Gate != nil {
		if !deps.Gate.TryAcquire() {
			logger.Info("Scheduled rankings sync skipped, import already running")
			return
		}
		defer deps.Gate.Release()
	}

	changed := false
	for _, a := range associations {
		if ctx.Err() != nil {
			return
		}
		res := deps.Rankings.ImportRankings(ctx, a)
		if !res.Success {
			logger.Warn("Scheduled rankings sync failed", "association", a, "error", res.Error)
			continue
		}
		logger.Info("Scheduled rankings sync", "association", a, "summary", res.Summary())
		changed = changed || res.Changed()
	}
	if changed && deps.Cache != nil {
		deps.Cache.Invalidate(cache.PrefixRankings)
	}
}

// completeTournaments flags tournaments whose end date is before now.
func completeTournaments(ctx context.Context, deps Deps, now time.Time, logger *slog.Logger) {
	start := time.Now()
	n, err := deps.Tournaments.CompleteFinishedTournaments(ctx, now)
	if err != nil {
		logger.Warn("Tournament completion sweep failed", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Tournaments marked completed", "count", n,
			"duration", time.Since(start).Round(time.Millisecond))
	}
}
