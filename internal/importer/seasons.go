package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/tennis-stats/internal/provider"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// EnsureSeasonExists returns the (association, year) season, creating and
// committing it first when absent. A new season spans the calendar year and
// is current only for the current year.
func (im *Importer) EnsureSeasonExists(ctx context.Context, association tennis.Association, year int) (*tennis.Season, error) {
	season, err := im.repos.Seasons.GetByYear(ctx, association, year)
	if err != nil {
		return nil, fmt.Errorf("lookup season %s %d: %w", association, year, err)
	}
	if season != nil {
		return season, nil
	}

	start, end := tennis.YearBounds(year)
	season = &tennis.Season{
		ExternalID:  year,
		Year:        year,
		Association: association,
		StartDate:   &start,
		EndDate:     &end,
		IsCurrent:   year == im.now().Year(),
	}
	if err := im.repos.Seasons.Add(ctx, season); err != nil {
		return nil, fmt.Errorf("add season %s %d: %w", association, year, err)
	}
	if err := im.repos.UnitOfWork.Save(ctx); err != nil {
		return nil, fmt.Errorf("save season %s %d: %w", association, year, err)
	}
	im.logger.Info("Created season", "association", association, "year", year, "season_id", season.ID)
	return season, nil
}

// ImportSeasons reconciles the provider's season list for the association
// and commits once at the end.
func (im *Importer) ImportSeasons(ctx context.Context, association tennis.Association) Result {
	return im.run(ctx, EntitySeasons, association, func(ctx context.Context, logger *slog.Logger, res *Result) error {
		work := context.WithoutCancel(ctx)

		im.tracker.Update(fmt.Sprintf("Importing %s seasons", association), 0)
		records := im.source.GetSeasons(ctx, association)
		if len(records) == 0 && ctx.Err() != nil {
			return ErrCancelled
		}
		logger.Info("Fetched seasons", "count", len(records))

		cancelled := false
		for i, rec := range records {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			o, err := reconcile(func() (outcome, error) {
				return im.reconcileSeason(work, association, rec)
			})
			if err != nil {
				logger.Warn("Season import failed", "year", rec.Year, "error", err)
			}
			res.count(o)
			im.tracker.Update(fmt.Sprintf("Importing %s seasons", association), percent(i+1, len(records)))
		}

		if err := im.repos.UnitOfWork.Save(work); err != nil {
			return fmt.Errorf("save seasons: %w", err)
		}
		if cancelled {
			return ErrCancelled
		}
		return nil
	})
}

func (im *Importer) reconcileSeason(ctx context.Context, association tennis.Association, rec provider.Season) (outcome, error) {
	if rec.Year <= 0 {
		return outcomeFailed, fmt.Errorf("invalid season year %d", rec.Year)
	}
	existing, err := im.repos.Seasons.GetByYear(ctx, association, rec.Year)
	if err != nil {
		return outcomeFailed, fmt.Errorf("lookup: %w", err)
	}

	start, end := tennis.YearBounds(rec.Year)
	if rec.StartDate != nil {
		start = *rec.StartDate
	}
	if rec.EndDate != nil {
		end = *rec.EndDate
	}
	current := rec.Year == im.now().Year()

	if existing == nil {
		s := &tennis.Season{
			ExternalID:  rec.ID,
			Year:        rec.Year,
			Association: association,
			StartDate:   &start,
			EndDate:     &end,
			IsCurrent:   current,
		}
		if err := im.repos.Seasons.Add(ctx, s); err != nil {
			return outcomeFailed, fmt.Errorf("add: %w", err)
		}
		return outcomeAdded, nil
	}

	if existing.ExternalID == rec.ID && existing.IsCurrent == current &&
		sameDay(existing.StartDate, &start) && sameDay(existing.EndDate, &end) {
		return outcomeSkipped, nil
	}
	existing.ExternalID = rec.ID
	existing.StartDate = &start
	existing.EndDate = &end
	existing.IsCurrent = current
	if err := im.repos.Seasons.Update(ctx, existing); err != nil {
		return outcomeFailed, fmt.Errorf("update: %w", err)
	}
	return outcomeUpdated, nil
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return tennis.DateOnly(*a).Equal(tennis.DateOnly(*b))
}
