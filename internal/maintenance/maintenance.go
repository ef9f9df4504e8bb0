// Package maintenance runs periodic background tasks as Go tickers: a
// scheduled rankings import per association and a sweep that marks finished
// tournaments as completed.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/tennis-stats/internal/config"
	"github.com/albapepper/tennis-stats/internal/importer"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	RankingsInterval   time.Duration // Rankings import per association
	CompletionInterval time.Duration // Flag tournaments whose end date passed
	Associations       []tennis.Association
}

// ConfigFrom derives the ticker settings from the application config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		RankingsInterval:   cfg.SyncRankingsInterval,
		CompletionInterval: cfg.SyncCompletionInterval,
		Associations:       cfg.SyncAssociations,
	}
}

// RankingsImporter imports the current rankings of an association.
type RankingsImporter interface {
	ImportRankings(ctx context.Context, association tennis.Association) importer.Result
}

// TournamentCompleter marks tournaments that ended before now as completed.
type TournamentCompleter interface {
	CompleteFinishedTournaments(ctx context.Context, now time.Time) (int, error)
}

// Invalidator drops cached reads by key prefix.
type Invalidator interface {
	Invalidate(prefix string) int
}

// Deps are the collaborators the tasks act on.
type Deps struct {
	Rankings    RankingsImporter
	Tournaments TournamentCompleter
	Cache       Invalidator    // optional
	Gate        *importer.Gate // shared with other import triggers; optional
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, deps Deps, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"rankings", cfg.RankingsInterval,
		"completion", cfg.CompletionInterval,
		"associations", cfg.Associations)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.RankingsInterval > 0 && deps.Rankings != nil {
		t := time.NewTicker(cfg.RankingsInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { syncRankings(ctx, deps, cfg.Associations, logger) })
	}

	if cfg.CompletionInterval > 0 && deps.Tournaments != nil {
		t := time.NewTicker(cfg.CompletionInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { completeTournaments(ctx, deps, time.Now().UTC(), logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
