package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/tennis-stats/internal/tennis"
)

// --------------------------------------------------------------------------
// Players
// --------------------------------------------------------------------------

type PlayerRepo struct{ s *Store }

func scanPlayer(row pgx.Row) (*tennis.Player, error) {
	var (
		p                  tennis.Player
		assoc, hand, bhand string
	)
	err := row.Scan(&p.ID, &p.ExternalID, &assoc, &p.FirstName, &p.LastName, &p.FullName, &p.Country,
		&p.DateOfBirth, &p.HeightCm, &p.WeightKg, &hand, &bhand, &p.TurnedProYear, &p.ImageURL,
		&p.IsActive, &p.LastSyncedAt)
	if err != nil {
		return nil, err
	}
	p.Association = tennis.Association(assoc)
	p.Hand = tennis.ParseHand(hand)
	p.Backhand = tennis.ParseBackhand(bhand)
	p.DateOfBirth = utcPtr(p.DateOfBirth)
	return &p, nil
}

func (r *PlayerRepo) GetByExternalID(ctx context.Context, association tennis.Association, externalID int) (*tennis.Player, error) {
	return getOne(ctx, r.s, scanPlayer, "player_by_external_id", string(association), externalID)
}

func (r *PlayerRepo) Add(ctx context.Context, p *tennis.Player) error {
	return r.s.write(ctx, func(q querier) error {
		err := q.QueryRow(ctx, "player_insert",
			p.ExternalID, string(p.Association), p.FirstName, p.LastName, p.FullName, p.Country,
			dateArg(p.DateOfBirth), p.HeightCm, p.WeightKg, p.Hand.String(), p.Backhand.String(),
			p.TurnedProYear, p.ImageURL, p.IsActive, p.LastSyncedAt,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("insert player %s/%d: %w", p.Association, p.ExternalID, err)
		}
		return nil
	})
}

func (r *PlayerRepo) Update(ctx context.Context, p *tennis.Player) error {
	return r.s.write(ctx, func(q querier) error {
		_, err := q.Exec(ctx, "player_update",
			p.ID, p.FirstName, p.LastName, p.FullName, p.Country,
			dateArg(p.DateOfBirth), p.HeightCm, p.WeightKg, p.Hand.String(), p.Backhand.String(),
			p.TurnedProYear, p.ImageURL, p.IsActive, p.LastSyncedAt,
		)
		if err != nil {
			return fmt.Errorf("update player %d: %w", p.ID, err)
		}
		return nil
	})
}

// --------------------------------------------------------------------------
// Tournaments
// --------------------------------------------------------------------------

type TournamentRepo struct{ s *Store }

func scanTournament(row pgx.Row) (*tennis.Tournament, error) {
	var (
		t              tennis.Tournament
		assoc, surface string
	)
	err := row.Scan(&t.ID, &t.ExternalID, &assoc, &t.SeasonID, &t.Name, &t.City, &t.Country, &surface,
		&t.StartDate, &t.EndDate, &t.PrizeMoney, &t.Currency, &t.Category, &t.IsCompleted, &t.LastSyncedAt)
	if err != nil {
		return nil, err
	}
	t.Association = tennis.Association(assoc)
	t.Surface = tennis.ParseSurface(surface)
	t.StartDate = utcPtr(t.StartDate)
	t.EndDate = utcPtr(t.EndDate)
	return &t, nil
}

func (r *TournamentRepo) GetByExternalID(ctx context.Context, association tennis.Association, externalID int) (*tennis.Tournament, error) {
	return getOne(ctx, r.s, scanTournament, "tournament_by_external_id", string(association), externalID)
}

func (r *TournamentRepo) Add(ctx context.Context, t *tennis.Tournament) error {
	return r.s.write(ctx, func(q querier) error {
		err := q.QueryRow(ctx, "tournament_insert",
			t.ExternalID, string(t.Association), t.SeasonID, t.Name, t.City, t.Country, t.Surface.String(),
			dateArg(t.StartDate), dateArg(t.EndDate), t.PrizeMoney, t.Currency, t.Category,
			t.IsCompleted, t.LastSyncedAt,
		).Scan(&t.ID)
		if err != nil {
			return fmt.Errorf("insert tournament %s/%d: %w", t.Association, t.ExternalID, err)
		}
		return nil
	})
}

func (r *TournamentRepo) Update(ctx context.Context, t *tennis.Tournament) error {
	return r.s.write(ctx, func(q querier) error {
		_, err := q.Exec(ctx, "tournament_update",
			t.ID, t.SeasonID, t.Name, t.City, t.Country, t.Surface.String(),
			dateArg(t.StartDate), dateArg(t.EndDate), t.PrizeMoney, t.Currency, t.Category,
			t.IsCompleted, t.LastSyncedAt,
		)
		if err != nil {
			return fmt.Errorf("update tournament %d: %w", t.ID, err)
		}
		return nil
	})
}

// --------------------------------------------------------------------------
// Seasons
// --------------------------------------------------------------------------

type SeasonRepo struct{ s *Store }

func scanSeason(row pgx.Row) (*tennis.Season, error) {
	var (
		season tennis.Season
		assoc  string
	)
	err := row.Scan(&season.ID, &season.ExternalID, &season.Year, &assoc,
		&season.StartDate, &season.EndDate, &season.IsCurrent)
	if err != nil {
		return nil, err
	}
	season.Association = tennis.Association(assoc)
	season.StartDate = utcPtr(season.StartDate)
	season.EndDate = utcPtr(season.EndDate)
	return &season, nil
}

func (r *SeasonRepo) GetByYear(ctx context.Context, association tennis.Association, year int) (*tennis.Season, error) {
	return getOne(ctx, r.s, scanSeason, "season_by_year", string(association), year)
}

// Add inserts the season, or adopts the id of an existing row with the same
// (association, year).
func (r *SeasonRepo) Add(ctx context.Context, season *tennis.Season) error {
	return r.s.write(ctx, func(q querier) error {
		err := q.QueryRow(ctx, "season_insert",
			season.ExternalID, season.Year, string(season.Association),
			dateArg(season.StartDate), dateArg(season.EndDate), season.IsCurrent,
		).Scan(&season.ID)
		if err != nil {
			return fmt.Errorf("insert season %s/%d: %w", season.Association, season.Year, err)
		}
		return nil
	})
}

func (r *SeasonRepo) Update(ctx context.Context, season *tennis.Season) error {
	return r.s.write(ctx, func(q querier) error {
		_, err := q.Exec(ctx, "season_update",
			season.ID, season.ExternalID, dateArg(season.StartDate), dateArg(season.EndDate), season.IsCurrent)
		if err != nil {
			return fmt.Errorf("update season %d: %w", season.ID, err)
		}
		return nil
	})
}

// --------------------------------------------------------------------------
// Rankings
// --------------------------------------------------------------------------

type RankingRepo struct{ s *Store }

func scanRanking(row pgx.Row) (*tennis.Ranking, error) {
	var (
		rk    tennis.Ranking
		assoc string
	)
	err := row.Scan(&rk.ID, &rk.ExternalID, &rk.PlayerID, &rk.SeasonID, &assoc, &rk.Rank, &rk.Points,
		&rk.PreviousRank, &rk.RankChange, &rk.RankingDate, &rk.LastSyncedAt)
	if err != nil {
		return nil, err
	}
	rk.Association = tennis.Association(assoc)
	rk.RankingDate = tennis.DateOnly(rk.RankingDate)
	return &rk, nil
}

func (r *RankingRepo) GetForDate(ctx context.Context, playerID int, date time.Time) (*tennis.Ranking, error) {
	return getOne(ctx, r.s, scanRanking, "ranking_for_date", playerID, tennis.DateOnly(date))
}

func (r *RankingRepo) Add(ctx context.Context, rk *tennis.Ranking) error {
	return r.s.write(ctx, func(q querier) error {
		err := q.QueryRow(ctx, "ranking_insert",
			rk.ExternalID, rk.PlayerID, rk.SeasonID, string(rk.Association), rk.Rank, rk.Points,
			rk.PreviousRank, rk.RankChange, tennis.DateOnly(rk.RankingDate), rk.LastSyncedAt,
		).Scan(&rk.ID)
		if err != nil {
			return fmt.Errorf("insert ranking player %d: %w", rk.PlayerID, err)
		}
		return nil
	})
}

func (r *RankingRepo) Update(ctx context.Context, rk *tennis.Ranking) error {
	return r.s.write(ctx, func(q querier) error {
		_, err := q.Exec(ctx, "ranking_update",
			rk.ID, rk.Rank, rk.Points, rk.PreviousRank, rk.RankChange, rk.LastSyncedAt)
		if err != nil {
			return fmt.Errorf("update ranking %d: %w", rk.ID, err)
		}
		return nil
	})
}
