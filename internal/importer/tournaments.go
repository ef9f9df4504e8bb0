package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/tennis-stats/internal/provider"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// ImportTournaments imports tournaments for each year in [startYear, endYear]
// ascending. The year's season is ensured first; each year is flushed before
// the next and delay separates years. An inverted range imports nothing.
func (im *Importer) ImportTournaments(ctx context.Context, association tennis.Association, startYear, endYear int, delay time.Duration) Result {
	return im.run(ctx, EntityTournaments, association, func(ctx context.Context, logger *slog.Logger, res *Result) error {
		work := context.WithoutCancel(ctx)
		years := endYear - startYear + 1

		logger.Info("Importing tournaments", "start_year", startYear, "end_year", endYear)
		for year := startYear; year <= endYear; year++ {
			if ctx.Err() != nil {
				return ErrCancelled
			}
			im.tracker.Update(fmt.Sprintf("Importing %s tournaments for %d", association, year), percent(year-startYear, years))

			season, err := im.EnsureSeasonExists(work, association, year)
			if err != nil {
				return err
			}

			records := im.source.GetTournaments(ctx, association, year)
			if len(records) == 0 && ctx.Err() != nil {
				return ErrCancelled
			}

			now := im.now()
			for _, rec := range records {
				o, err := reconcile(func() (outcome, error) {
					return im.reconcileTournament(work, association, season.ID, rec, now)
				})
				if err != nil {
					logger.Warn("Tournament import failed", "external_id", rec.ID, "year", year, "error", err)
				}
				res.count(o)
			}

			if err := im.repos.UnitOfWork.Save(work); err != nil {
				return fmt.Errorf("save tournaments %d: %w", year, err)
			}
			logger.Debug("Tournament year saved", "year", year, "records", len(records))

			if year < endYear {
				if err := im.sleep(ctx, delay); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (im *Importer) reconcileTournament(ctx context.Context, association tennis.Association, seasonID int, rec provider.Tournament, now time.Time) (outcome, error) {
	existing, err := im.repos.Tournaments.GetByExternalID(ctx, association, rec.ID)
	if err != nil {
		return outcomeFailed, fmt.Errorf("lookup: %w", err)
	}

	if existing == nil {
		t := &tennis.Tournament{
			ExternalID:  rec.ID,
			Association: association,
			SeasonID:    seasonID,
		}
		applyTournament(t, rec, now)
		if err := im.repos.Tournaments.Add(ctx, t); err != nil {
			return outcomeFailed, fmt.Errorf("add: %w", err)
		}
		return outcomeAdded, nil
	}

	// A tournament listed again under a later year moves to that season.
	existing.SeasonID = seasonID
	applyTournament(existing, rec, now)
	if err := im.repos.Tournaments.Update(ctx, existing); err != nil {
		return outcomeFailed, fmt.Errorf("update: %w", err)
	}
	return outcomeUpdated, nil
}

// applyTournament copies the provider's mutable attributes onto t and
// derives completion from the end date.
func applyTournament(t *tennis.Tournament, rec provider.Tournament, now time.Time) {
	t.Name = rec.Name
	t.City = rec.City
	t.Country = rec.Country
	t.Surface = tennis.ParseSurface(rec.Surface)
	t.StartDate = rec.StartDate
	t.EndDate = rec.EndDate
	t.PrizeMoney = rec.PrizeMoney
	t.Currency = rec.Currency
	t.Category = rec.Category
	t.IsCompleted = tennis.IsCompleted(rec.EndDate, now)
	t.LastSyncedAt = &now
}
