// Package memory is an in-process store with the same contract as the
// Postgres store. It backs dry runs and tests.
//
// Writes are visible immediately; Save only counts flushes. Uniqueness of
// the natural keys is enforced the way the database constraints do.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/albapepper/tennis-stats/internal/tennis"
)

type externalKey struct {
	association tennis.Association
	externalID  int
}

type seasonKey struct {
	association tennis.Association
	year        int
}

type rankingKey struct {
	playerID int
	date     time.Time
}

// Store holds every entity in maps guarded by one mutex. Entities are copied
// in and out so callers never share memory with the store.
type Store struct {
	mu sync.Mutex

	nextID int
	saves  int

	players     map[int]tennis.Player
	tournaments map[int]tennis.Tournament
	seasons     map[int]tennis.Season
	rankings    map[int]tennis.Ranking

	playersByExt     map[externalKey]int
	tournamentsByExt map[externalKey]int
	seasonsByYear    map[seasonKey]int
	rankingsByDate   map[rankingKey]int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		players:          make(map[int]tennis.Player),
		tournaments:      make(map[int]tennis.Tournament),
		seasons:          make(map[int]tennis.Season),
		rankings:         make(map[int]tennis.Ranking),
		playersByExt:     make(map[externalKey]int),
		tournamentsByExt: make(map[externalKey]int),
		seasonsByYear:    make(map[seasonKey]int),
		rankingsByDate:   make(map[rankingKey]int),
	}
}

func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

// Save records a flush. It never fails.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	return nil
}

// Saves returns how many times Save was called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Counts returns the number of stored players, tournaments, seasons and rankings.
func (s *Store) Counts() (players, tournaments, seasons, rankings int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players), len(s.tournaments), len(s.seasons), len(s.rankings)
}

func (s *Store) Players() *PlayerRepo         { return &PlayerRepo{s} }
func (s *Store) Tournaments() *TournamentRepo { return &TournamentRepo{s} }
func (s *Store) Seasons() *SeasonRepo         { return &SeasonRepo{s} }
func (s *Store) Rankings() *RankingRepo       { return &RankingRepo{s} }

// --------------------------------------------------------------------------
// Players
// --------------------------------------------------------------------------

type PlayerRepo struct{ s *Store }

func (r *PlayerRepo) GetByExternalID(ctx context.Context, association tennis.Association, externalID int) (*tennis.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.playersByExt[externalKey{association, externalID}]
	if !ok {
		return nil, nil
	}
	p := r.s.players[id]
	return &p, nil
}

func (r *PlayerRepo) Add(ctx context.Context, p *tennis.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := externalKey{p.Association, p.ExternalID}
	if _, dup := r.s.playersByExt[key]; dup {
		return fmt.Errorf("player %s/%d already exists", p.Association, p.ExternalID)
	}
	p.ID = r.s.id()
	r.s.players[p.ID] = *p
	r.s.playersByExt[key] = p.ID
	return nil
}

func (r *PlayerRepo) Update(ctx context.Context, p *tennis.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.players[p.ID]; !ok {
		return fmt.Errorf("player %d not found", p.ID)
	}
	r.s.players[p.ID] = *p
	return nil
}

// --------------------------------------------------------------------------
// Tournaments
// --------------------------------------------------------------------------

type TournamentRepo struct{ s *Store }

func (r *TournamentRepo) GetByExternalID(ctx context.Context, association tennis.Association, externalID int) (*tennis.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.tournamentsByExt[externalKey{association, externalID}]
	if !ok {
		return nil, nil
	}
	t := r.s.tournaments[id]
	return &t, nil
}

func (r *TournamentRepo) Add(ctx context.Context, t *tennis.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := externalKey{t.Association, t.ExternalID}
	if _, dup := r.s.tournamentsByExt[key]; dup {
		return fmt.Errorf("tournament %s/%d already exists", t.Association, t.ExternalID)
	}
	t.ID = r.s.id()
	r.s.tournaments[t.ID] = *t
	r.s.tournamentsByExt[key] = t.ID
	return nil
}

func (r *TournamentRepo) Update(ctx context.Context, t *tennis.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[t.ID]; !ok {
		return fmt.Errorf("tournament %d not found", t.ID)
	}
	r.s.tournaments[t.ID] = *t
	return nil
}

// --------------------------------------------------------------------------
// Seasons
// --------------------------------------------------------------------------

type SeasonRepo struct{ s *Store }

func (r *SeasonRepo) GetByYear(ctx context.Context, association tennis.Association, year int) (*tennis.Season, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.seasonsByYear[seasonKey{association, year}]
	if !ok {
		return nil, nil
	}
	season := r.s.seasons[id]
	return &season, nil
}

func (r *SeasonRepo) Add(ctx context.Context, season *tennis.Season) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := seasonKey{season.Association, season.Year}
	if _, dup := r.s.seasonsByYear[key]; dup {
		return fmt.Errorf("season %s/%d already exists", season.Association, season.Year)
	}
	season.ID = r.s.id()
	r.s.seasons[season.ID] = *season
	r.s.seasonsByYear[key] = season.ID
	return nil
}

func (r *SeasonRepo) Update(ctx context.Context, season *tennis.Season) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.seasons[season.ID]; !ok {
		return fmt.Errorf("season %d not found", season.ID)
	}
	r.s.seasons[season.ID] = *season
	return nil
}

// --------------------------------------------------------------------------
// Rankings
// --------------------------------------------------------------------------

type RankingRepo struct{ s *Store }

func (r *RankingRepo) GetForDate(ctx context.Context, playerID int, date time.Time) (*tennis.Ranking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.rankingsByDate[rankingKey{playerID, tennis.DateOnly(date)}]
	if !ok {
		return nil, nil
	}
	rk := r.s.rankings[id]
	return &rk, nil
}

func (r *RankingRepo) Add(ctx context.Context, rk *tennis.Ranking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rk.RankingDate = tennis.DateOnly(rk.RankingDate)
	key := rankingKey{rk.PlayerID, rk.RankingDate}
	if _, dup := r.s.rankingsByDate[key]; dup {
		return fmt.Errorf("ranking for player %d on %s already exists", rk.PlayerID, rk.RankingDate.Format(time.DateOnly))
	}
	rk.ID = r.s.id()
	r.s.rankings[rk.ID] = *rk
	r.s.rankingsByDate[key] = rk.ID
	return nil
}

func (r *RankingRepo) Update(ctx context.Context, rk *tennis.Ranking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rankings[rk.ID]; !ok {
		return fmt.Errorf("ranking %d not found", rk.ID)
	}
	r.s.rankings[rk.ID] = *rk
	return nil
}

// --------------------------------------------------------------------------
// Read side
// --------------------------------------------------------------------------

// GetPlayer returns the player with the given local id, or nil.
func (s *Store) GetPlayer(ctx context.Context, id int) (*tennis.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// TopRankings returns the best count rows of the association's most recent
// ranking date, ordered by rank.
func (s *Store) TopRankings(ctx context.Context, association tennis.Association, count int) ([]tennis.RankedPlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest time.Time
	for _, rk := range s.rankings {
		if rk.Association == association && rk.RankingDate.After(latest) {
			latest = rk.RankingDate
		}
	}

	var out []tennis.RankedPlayer
	for _, rk := range s.rankings {
		if rk.Association != association || !rk.RankingDate.Equal(latest) {
			continue
		}
		p := s.players[rk.PlayerID]
		out = append(out, tennis.RankedPlayer{Ranking: rk, PlayerName: p.FullName, Country: p.Country})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

// CompleteFinishedTournaments flags every tournament that ended before now.
func (s *Store) CompleteFinishedTournaments(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, t := range s.tournaments {
		if !t.IsCompleted && tennis.IsCompleted(t.EndDate, now) {
			t.IsCompleted = true
			s.tournaments[id] = t
			n++
		}
	}
	return n, nil
}
