package tennis

import "time"

// Player is a professional player as stored locally. ID is assigned by the
// store; ExternalID is the provider's identifier and never changes.
type Player struct {
	ID            int         `json:"id"`
	ExternalID    int         `json:"external_id"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	FullName      string      `json:"full_name"`
	Country       string      `json:"country,omitempty"`
	DateOfBirth   *time.Time  `json:"date_of_birth,omitempty"`
	HeightCm      *int        `json:"height_cm,omitempty"`
	WeightKg      *int        `json:"weight_kg,omitempty"`
	Hand          Hand        `json:"hand"`
	Backhand      Backhand    `json:"backhand"`
	TurnedProYear *int        `json:"turned_pro_year,omitempty"`
	ImageURL      string      `json:"image_url,omitempty"`
	Association   Association `json:"association"`
	IsActive      bool        `json:"is_active"`
	LastSyncedAt  *time.Time  `json:"last_synced_at,omitempty"`
}

// Season groups tournaments and rankings per association and year.
// (Association, Year) is unique.
type Season struct {
	ID          int         `json:"id"`
	ExternalID  int         `json:"external_id"`
	Year        int         `json:"year"`
	Association Association `json:"association"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	IsCurrent   bool        `json:"is_current"`
}

// Tournament is a single event within a season.
type Tournament struct {
	ID           int         `json:"id"`
	ExternalID   int         `json:"external_id"`
	Name         string      `json:"name"`
	City         string      `json:"city,omitempty"`
	Country      string      `json:"country,omitempty"`
	Surface      Surface     `json:"surface"`
	StartDate    *time.Time  `json:"start_date,omitempty"`
	EndDate      *time.Time  `json:"end_date,omitempty"`
	PrizeMoney   *int        `json:"prize_money,omitempty"`
	Currency     string      `json:"currency,omitempty"`
	Category     string      `json:"category,omitempty"` // "Grand Slam", "WTA 1000", ...
	IsCompleted  bool        `json:"is_completed"`
	Association  Association `json:"association"`
	SeasonID     int         `json:"season_id"`
	LastSyncedAt *time.Time  `json:"last_synced_at,omitempty"`
}

// Ranking is a point-in-time ranking snapshot. (PlayerID, RankingDate) is
// unique; RankingDate carries only a calendar day.
type Ranking struct {
	ID           int         `json:"id"`
	ExternalID   int         `json:"external_id"`
	PlayerID     int         `json:"player_id"`
	SeasonID     int         `json:"season_id"`
	Rank         int         `json:"rank"`
	Points       int         `json:"points"`
	PreviousRank *int        `json:"previous_rank,omitempty"`
	RankChange   *int        `json:"rank_change,omitempty"`
	RankingDate  time.Time   `json:"ranking_date"`
	Association  Association `json:"association"`
	LastSyncedAt *time.Time  `json:"last_synced_at,omitempty"`
}

// RankedPlayer is a ranking row joined with the player it belongs to, as
// served by the rankings read endpoint.
type RankedPlayer struct {
	Ranking
	PlayerName string `json:"player_name"`
	Country    string `json:"country,omitempty"`
}

// RankChange returns previous minus current rank, or nil without a previous rank.
func RankChange(rank int, previousRank *int) *int {
	if previousRank == nil {
		return nil
	}
	change := *previousRank - rank
	return &change
}

// IsCompleted reports whether a tournament ending at end is over at now.
// A tournament without an end date is never complete.
func IsCompleted(end *time.Time, now time.Time) bool {
	return end != nil && end.Before(now)
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// YearBounds returns January 1st and December 31st of year in UTC.
func YearBounds(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}
