package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/tennis-stats/internal/tennis"
)

// GetPlayer returns the player with the given local id, or nil.
func (s *Store) GetPlayer(ctx context.Context, id int) (*tennis.Player, error) {
	return getOne(ctx, s, scanPlayer, "player_by_id", id)
}

// TopRankings returns the best count rows of the association's most recent
// ranking date, ordered by rank.
func (s *Store) TopRankings(ctx context.Context, association tennis.Association, count int) ([]tennis.RankedPlayer, error) {
	rows, err := s.pool.Query(ctx, "top_rankings", string(association), count)
	if err != nil {
		return nil, fmt.Errorf("query top rankings: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (tennis.RankedPlayer, error) {
		var (
			rp    tennis.RankedPlayer
			assoc string
		)
		err := row.Scan(&rp.ID, &rp.ExternalID, &rp.PlayerID, &rp.SeasonID, &assoc, &rp.Rank, &rp.Points,
			&rp.PreviousRank, &rp.RankChange, &rp.RankingDate, &rp.LastSyncedAt, &rp.PlayerName, &rp.Country)
		rp.Association = tennis.Association(assoc)
		rp.RankingDate = tennis.DateOnly(rp.RankingDate)
		return rp, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan top rankings: %w", err)
	}
	return out, nil
}

// CompleteFinishedTournaments flags every open tournament whose end date is
// before now and returns how many rows changed.
func (s *Store) CompleteFinishedTournaments(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, "complete_finished_tournaments", now)
	if err != nil {
		return 0, fmt.Errorf("complete finished tournaments: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
