package bdl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/albapepper/tennis-stats/internal/provider"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// maxRankingPages bounds the cursor walk over a ranking table.
const maxRankingPages = 50

// TennisHandler fetches and normalizes ATP and WTA data from BallDontLie.
type TennisHandler struct {
	client *Client
	logger *slog.Logger
}

// NewTennisHandler creates a tennis handler on top of client.
func NewTennisHandler(client *Client, logger *slog.Logger) *TennisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TennisHandler{client: client, logger: logger}
}

// --------------------------------------------------------------------------
// Dates
// --------------------------------------------------------------------------

// bdlDate accepts both "2006-01-02" and RFC 3339 timestamps.
type bdlDate struct {
	time.Time
}

func (d *bdlDate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

func (d *bdlDate) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// --------------------------------------------------------------------------
// Players (page-numbered)
// --------------------------------------------------------------------------

type bdlPlayerRaw struct {
	ID            int      `json:"id"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	FullName      string   `json:"full_name"`
	Country       string   `json:"country"`
	DateOfBirth   *bdlDate `json:"date_of_birth"`
	HeightCm      *int     `json:"height_cm"`
	WeightKg      *int     `json:"weight_kg"`
	Hand          string   `json:"hand"`
	Backhand      string   `json:"backhand"`
	TurnedProYear *int     `json:"turned_pro_year"`
	ImageURL      string   `json:"image_url"`
}

// Players fetches one page of the association's player listing.
func (h *TennisHandler) Players(ctx context.Context, association tennis.Association, page, perPage int) ([]provider.Player, error) {
	params := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
	resp, err := h.client.get(ctx, association, "/players", params)
	if err != nil {
		return nil, fmt.Errorf("fetch %s players page %d: %w", association, page, err)
	}

	var raw []bdlPlayerRaw
	if err := json.Unmarshal(resp.Data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s players: %w", association, err)
	}

	players := make([]provider.Player, 0, len(raw))
	for _, p := range raw {
		players = append(players, normalizePlayer(p))
	}
	return players, nil
}

// Player fetches one player by provider id. It returns (nil, nil) when the
// provider does not know the id.
func (h *TennisHandler) Player(ctx context.Context, association tennis.Association, id int) (*provider.Player, error) {
	resp, err := h.client.get(ctx, association, "/players/"+strconv.Itoa(id), nil)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s player %d: %w", association, id, err)
	}

	var raw *bdlPlayerRaw
	if err := json.Unmarshal(resp.Data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s player %d: %w", association, id, err)
	}
	if raw == nil {
		return nil, nil
	}
	p := normalizePlayer(*raw)
	return &p, nil
}

func normalizePlayer(raw bdlPlayerRaw) provider.Player {
	fullName := raw.FullName
	if fullName == "" {
		fullName = strings.TrimSpace(raw.FirstName + " " + raw.LastName)
	}
	if fullName == "" {
		fullName = fmt.Sprintf("Player %d", raw.ID)
	}
	return provider.Player{
		ID:            raw.ID,
		FirstName:     raw.FirstName,
		LastName:      raw.LastName,
		FullName:      fullName,
		Country:       raw.Country,
		DateOfBirth:   raw.DateOfBirth.ptr(),
		HeightCm:      raw.HeightCm,
		WeightKg:      raw.WeightKg,
		Hand:          raw.Hand,
		Backhand:      raw.Backhand,
		TurnedProYear: raw.TurnedProYear,
		ImageURL:      raw.ImageURL,
	}
}

// --------------------------------------------------------------------------
// Tournaments
// --------------------------------------------------------------------------

type bdlSeasonRaw struct {
	ID        int      `json:"id"`
	Year      int      `json:"year"`
	StartDate *bdlDate `json:"start_date"`
	EndDate   *bdlDate `json:"end_date"`
}

type bdlTournamentRaw struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	City       string        `json:"city"`
	Country    string        `json:"country"`
	Surface    string        `json:"surface"`
	StartDate  *bdlDate      `json:"start_date"`
	EndDate    *bdlDate      `json:"end_date"`
	PrizeMoney *int          `json:"prize_money"`
	Currency   string        `json:"currency"`
	Category   string        `json:"category"`
	Season     *bdlSeasonRaw `json:"season"`
}

// Tournaments fetches the association's tournaments of one season year.
func (h *TennisHandler) Tournaments(ctx context.Context, association tennis.Association, year int) ([]provider.Tournament, error) {
	params := url.Values{"season": {strconv.Itoa(year)}}
	resp, err := h.client.get(ctx, association, "/tournaments", params)
	if err != nil {
		return nil, fmt.Errorf("fetch %s tournaments %d: %w", association, year, err)
	}

	var raw []bdlTournamentRaw
	if err := json.Unmarshal(resp.Data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s tournaments: %w", association, err)
	}

	tournaments := make([]provider.Tournament, 0, len(raw))
	for _, t := range raw {
		tournaments = append(tournaments, normalizeTournament(t, year))
	}
	return tournaments, nil
}

func normalizeTournament(raw bdlTournamentRaw, year int) provider.Tournament {
	seasonYear := year
	if raw.Season != nil && raw.Season.Year != 0 {
		seasonYear = raw.Season.Year
	}
	return provider.Tournament{
		ID:         raw.ID,
		Name:       raw.Name,
		City:       raw.City,
		Country:    raw.Country,
		Surface:    raw.Surface,
		StartDate:  raw.StartDate.ptr(),
		EndDate:    raw.EndDate.ptr(),
		PrizeMoney: raw.PrizeMoney,
		Currency:   raw.Currency,
		Category:   raw.Category,
		SeasonYear: seasonYear,
	}
}

// --------------------------------------------------------------------------
// Rankings (cursor-paginated)
// --------------------------------------------------------------------------

type bdlRankingRaw struct {
	Player       *bdlPlayerRaw `json:"player"`
	Rank         int           `json:"rank"`
	Points       int           `json:"points"`
	PreviousRank *int          `json:"previous_rank"`
	RankingDate  *bdlDate      `json:"ranking_date"`
}

// Rankings fetches the association's current ranking table, following the
// cursor until the provider reports no further page.
func (h *TennisHandler) Rankings(ctx context.Context, association tennis.Association) ([]provider.Ranking, error) {
	params := url.Values{"per_page": {"100"}}
	today := tennis.DateOnly(time.Now().UTC())

	var rankings []provider.Ranking
	for page := 0; page < maxRankingPages; page++ {
		resp, err := h.client.get(ctx, association, "/rankings", params)
		if err != nil {
			return nil, fmt.Errorf("fetch %s rankings: %w", association, err)
		}

		var raw []bdlRankingRaw
		if err := json.Unmarshal(resp.Data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s rankings: %w", association, err)
		}

		for _, r := range raw {
			rankings = append(rankings, normalizeRanking(r, today))
		}

		if resp.Meta.NextCursor == nil || len(raw) == 0 {
			break
		}
		params.Set("cursor", strconv.Itoa(*resp.Meta.NextCursor))
	}
	return rankings, nil
}

func normalizeRanking(raw bdlRankingRaw, today time.Time) provider.Ranking {
	r := provider.Ranking{
		Rank:         raw.Rank,
		Points:       raw.Points,
		PreviousRank: raw.PreviousRank,
		RankingDate:  today,
	}
	if raw.Player != nil {
		r.PlayerID = raw.Player.ID
	}
	if d := raw.RankingDate.ptr(); d != nil {
		r.RankingDate = tennis.DateOnly(*d)
	}
	return r
}

// --------------------------------------------------------------------------
// Seasons
// --------------------------------------------------------------------------

// Seasons fetches every season the provider knows for the association.
func (h *TennisHandler) Seasons(ctx context.Context, association tennis.Association) ([]provider.Season, error) {
	resp, err := h.client.get(ctx, association, "/seasons", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s seasons: %w", association, err)
	}

	var raw []bdlSeasonRaw
	if err := json.Unmarshal(resp.Data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s seasons: %w", association, err)
	}

	currentYear := time.Now().UTC().Year()
	seasons := make([]provider.Season, 0, len(raw))
	for _, s := range raw {
		id := s.ID
		if id == 0 {
			id = s.Year
		}
		seasons = append(seasons, provider.Season{
			ID:        id,
			Year:      s.Year,
			StartDate: s.StartDate.ptr(),
			EndDate:   s.EndDate.ptr(),
			IsCurrent: s.Year == currentYear,
		})
	}
	return seasons, nil
}
