package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/tennis-stats/internal/provider"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// ImportRankings reconciles the association's current ranking table. Rows for
// players not imported yet are skipped. Rows are keyed by (player, date): an
// existing row is updated only when rank or points moved. One flush at the end.
func (im *Importer) ImportRankings(ctx context.Context, association tennis.Association) Result {
	return im.run(ctx, EntityRankings, association, func(ctx context.Context, logger *slog.Logger, res *Result) error {
		work := context.WithoutCancel(ctx)
		op := fmt.Sprintf("Importing %s rankings", association)

		im.tracker.Update(op, 0)
		season, err := im.EnsureSeasonExists(work, association, im.now().Year())
		if err != nil {
			return err
		}

		records := im.source.GetRankings(ctx, association)
		if len(records) == 0 && ctx.Err() != nil {
			return ErrCancelled
		}
		logger.Info("Fetched rankings", "count", len(records), "season_id", season.ID)

		cancelled := false
		for i, rec := range records {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			o, err := reconcile(func() (outcome, error) {
				return im.reconcileRanking(work, association, season.ID, rec)
			})
			if err != nil {
				logger.Warn("Ranking import failed", "player_external_id", rec.PlayerID, "rank", rec.Rank, "error", err)
			}
			res.count(o)
			im.tracker.Update(op, percent(i+1, len(records)))
		}

		// Rows reconciled before a cancellation are still flushed.
		if err := im.repos.UnitOfWork.Save(work); err != nil {
			return fmt.Errorf("save rankings: %w", err)
		}
		if cancelled {
			return ErrCancelled
		}
		return nil
	})
}

func (im *Importer) reconcileRanking(ctx context.Context, association tennis.Association, seasonID int, rec provider.Ranking) (outcome, error) {
	player, err := im.repos.Players.GetByExternalID(ctx, association, rec.PlayerID)
	if err != nil {
		return outcomeFailed, fmt.Errorf("player lookup: %w", err)
	}
	if player == nil {
		return outcomeSkipped, nil
	}

	date := tennis.DateOnly(rec.RankingDate)
	existing, err := im.repos.Rankings.GetForDate(ctx, player.ID, date)
	if err != nil {
		return outcomeFailed, fmt.Errorf("ranking lookup: %w", err)
	}
	now := im.now()

	if existing == nil {
		r := &tennis.Ranking{
			ExternalID:   rec.PlayerID,
			PlayerID:     player.ID,
			SeasonID:     seasonID,
			Rank:         rec.Rank,
			Points:       rec.Points,
			PreviousRank: rec.PreviousRank,
			RankChange:   tennis.RankChange(rec.Rank, rec.PreviousRank),
			RankingDate:  date,
			Association:  association,
			LastSyncedAt: &now,
		}
		if err := im.repos.Rankings.Add(ctx, r); err != nil {
			return outcomeFailed, fmt.Errorf("add: %w", err)
		}
		return outcomeAdded, nil
	}

	if existing.Rank == rec.Rank && existing.Points == rec.Points {
		return outcomeSkipped, nil
	}
	existing.Rank = rec.Rank
	existing.Points = rec.Points
	existing.PreviousRank = rec.PreviousRank
	existing.RankChange = tennis.RankChange(rec.Rank, rec.PreviousRank)
	existing.LastSyncedAt = &now
	if err := im.repos.Rankings.Update(ctx, existing); err != nil {
		return outcomeFailed, fmt.Errorf("update: %w", err)
	}
	return outcomeUpdated, nil
}
