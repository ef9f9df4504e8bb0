package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/tennis-stats/internal/provider"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// errNoPlayers fails a player import whose first page is empty. Every
// association has players, so an empty listing means the provider failed.
var errNoPlayers = errors.New("provider returned no players")

// ImportPlayers pages through the association's player listing, PlayersPerPage
// records at a time, until a page comes back empty or maxPages is reached.
// Each page is flushed before the next is requested; delay separates pages.
func (im *Importer) ImportPlayers(ctx context.Context, association tennis.Association, maxPages int, delay time.Duration) Result {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return im.run(ctx, EntityPlayers, association, func(ctx context.Context, logger *slog.Logger, res *Result) error {
		// Record work runs to completion even if ctx ends mid-page;
		// cancellation is observed between pages.
		work := context.WithoutCancel(ctx)

		logger.Info("Importing players", "max_pages", maxPages, "delay", delay)
		for page := 1; page <= maxPages; page++ {
			if ctx.Err() != nil {
				return ErrCancelled
			}
			im.tracker.Update(fmt.Sprintf("Importing %s players page %d", association, page), percent(page-1, maxPages))

			records := im.source.GetPlayers(ctx, association, page, PlayersPerPage)
			if len(records) == 0 {
				if ctx.Err() != nil {
					return ErrCancelled
				}
				if page == 1 {
					return errNoPlayers
				}
				logger.Info("No more players", "page", page)
				break
			}

			for _, rec := range records {
				o, err := reconcile(func() (outcome, error) {
					return im.reconcilePlayer(work, association, rec)
				})
				if err != nil {
					logger.Warn("Player import failed", "external_id", rec.ID, "error", err)
				}
				res.count(o)
			}

			if err := im.repos.UnitOfWork.Save(work); err != nil {
				return fmt.Errorf("save players page %d: %w", page, err)
			}
			logger.Debug("Players page saved", "page", page, "records", len(records))

			if page < maxPages {
				if err := im.sleep(ctx, delay); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ImportPlayer refreshes a single player by provider id, adding it when it is
// not stored yet. An id the provider does not return fails the run.
func (im *Importer) ImportPlayer(ctx context.Context, association tennis.Association, externalID int) Result {
	return im.run(ctx, EntityPlayers, association, func(ctx context.Context, logger *slog.Logger, res *Result) error {
		work := context.WithoutCancel(ctx)

		im.tracker.Update(fmt.Sprintf("Importing %s player %d", association, externalID), 0)
		rec := im.source.GetPlayer(ctx, association, externalID)
		if rec == nil {
			if ctx.Err() != nil {
				return ErrCancelled
			}
			return fmt.Errorf("provider returned no player %d", externalID)
		}

		o, err := reconcile(func() (outcome, error) {
			return im.reconcilePlayer(work, association, *rec)
		})
		if err != nil {
			logger.Warn("Player import failed", "external_id", externalID, "error", err)
		}
		res.count(o)

		if err := im.repos.UnitOfWork.Save(work); err != nil {
			return fmt.Errorf("save player %d: %w", externalID, err)
		}
		return nil
	})
}

func (im *Importer) reconcilePlayer(ctx context.Context, association tennis.Association, rec provider.Player) (outcome, error) {
	existing, err := im.repos.Players.GetByExternalID(ctx, association, rec.ID)
	if err != nil {
		return outcomeFailed, fmt.Errorf("lookup: %w", err)
	}
	now := im.now()

	if existing == nil {
		p := &tennis.Player{
			ExternalID:  rec.ID,
			Association: association,
			IsActive:    true,
		}
		applyPlayer(p, rec, now)
		if err := im.repos.Players.Add(ctx, p); err != nil {
			return outcomeFailed, fmt.Errorf("add: %w", err)
		}
		return outcomeAdded, nil
	}

	applyPlayer(existing, rec, now)
	if err := im.repos.Players.Update(ctx, existing); err != nil {
		return outcomeFailed, fmt.Errorf("update: %w", err)
	}
	return outcomeUpdated, nil
}

// applyPlayer copies the provider's mutable attributes onto p.
func applyPlayer(p *tennis.Player, rec provider.Player, now time.Time) {
	p.FirstName = rec.FirstName
	p.LastName = rec.LastName
	p.FullName = rec.FullName
	p.Country = rec.Country
	p.DateOfBirth = rec.DateOfBirth
	p.HeightCm = rec.HeightCm
	p.WeightKg = rec.WeightKg
	p.Hand = tennis.ParseHand(rec.Hand)
	p.Backhand = tennis.ParseBackhand(rec.Backhand)
	p.TurnedProYear = rec.TurnedProYear
	p.ImageURL = rec.ImageURL
	p.LastSyncedAt = &now
}
