package bdl

import (
	"context"
	"log/slog"

	"github.com/albapepper/tennis-stats/internal/provider"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// Source adapts a TennisHandler to the importer's fetch contract: every
// fetch returns a (possibly empty) record slice and never an error.
// Transport, HTTP and decode failures are logged and collapsed into an
// empty result, so callers cannot tell a failed page from the last page.
type Source struct {
	handler *TennisHandler
	logger  *slog.Logger
}

// NewSource wraps handler.
func NewSource(handler *TennisHandler, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{handler: handler, logger: logger}
}

// GetPlayers returns one page of players, or nil on failure.
func (s *Source) GetPlayers(ctx context.Context, association tennis.Association, page, perPage int) []provider.Player {
	players, err := s.handler.Players(ctx, association, page, perPage)
	if err != nil {
		s.logFailure(ctx, "players", association, err)
		return nil
	}
	return players
}

// GetPlayer returns one player, or nil when unknown or on failure.
func (s *Source) GetPlayer(ctx context.Context, association tennis.Association, id int) *provider.Player {
	player, err := s.handler.Player(ctx, association, id)
	if err != nil {
		s.logFailure(ctx, "player", association, err)
		return nil
	}
	return player
}

// GetTournaments returns a season's tournaments, or nil on failure.
func (s *Source) GetTournaments(ctx context.Context, association tennis.Association, year int) []provider.Tournament {
	tournaments, err := s.handler.Tournaments(ctx, association, year)
	if err != nil {
		s.logFailure(ctx, "tournaments", association, err)
		return nil
	}
	return tournaments
}

// GetRankings returns the current ranking table, or nil on failure.
func (s *Source) GetRankings(ctx context.Context, association tennis.Association) []provider.Ranking {
	rankings, err := s.handler.Rankings(ctx, association)
	if err != nil {
		s.logFailure(ctx, "rankings", association, err)
		return nil
	}
	return rankings
}

// GetSeasons returns the provider's seasons, or nil on failure.
func (s *Source) GetSeasons(ctx context.Context, association tennis.Association) []provider.Season {
	seasons, err := s.handler.Seasons(ctx, association)
	if err != nil {
		s.logFailure(ctx, "seasons", association, err)
		return nil
	}
	return seasons
}

func (s *Source) logFailure(ctx context.Context, resource string, association tennis.Association, err error) {
	if ctx.Err() != nil {
		s.logger.Debug("BDL fetch aborted", "resource", resource, "association", association, "error", err)
		return
	}
	s.logger.Error("BDL fetch failed", "resource", resource, "association", association, "error", err)
}
