// Package provider defines the normalized transfer records every tennis data
// provider translates its payloads into. These structs are the contract
// between the provider client and the importer: providers output them, the
// importer reconciles them against local entities.
//
// Enum-like fields (Hand, Backhand, Surface) stay as raw provider strings;
// parsing into closed enums is the importer's job.
package provider

import "time"

// Player is a provider player record.
type Player struct {
	ID            int        `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	FullName      string     `json:"full_name"`
	Country       string     `json:"country,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	HeightCm      *int       `json:"height_cm,omitempty"`
	WeightKg      *int       `json:"weight_kg,omitempty"`
	Hand          string     `json:"hand,omitempty"`
	Backhand      string     `json:"backhand,omitempty"`
	TurnedProYear *int       `json:"turned_pro_year,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
}

// Tournament is a provider tournament record.
type Tournament struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	City       string     `json:"city,omitempty"`
	Country    string     `json:"country,omitempty"`
	Surface    string     `json:"surface,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	PrizeMoney *int       `json:"prize_money,omitempty"`
	Currency   string     `json:"currency,omitempty"`
	Category   string     `json:"category,omitempty"`
	SeasonYear int        `json:"season_year"`
}

// Ranking is one row of a provider ranking table. PlayerID is the
// provider's player id.
type Ranking struct {
	PlayerID     int       `json:"player_id"`
	Rank         int       `json:"rank"`
	Points       int       `json:"points"`
	PreviousRank *int      `json:"previous_rank,omitempty"`
	RankingDate  time.Time `json:"ranking_date"`
}

// Season is a provider season record.
type Season struct {
	ID        int        `json:"id"`
	Year      int        `json:"year"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsCurrent bool       `json:"is_current"`
}
