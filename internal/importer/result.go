package importer

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entity type labels carried by results.
const (
	EntityPlayers     = "Players"
	EntityTournaments = "Tournaments"
	EntityRankings    = "Rankings"
	EntitySeasons     = "Seasons"
)

type outcome int

const (
	outcomeAdded outcome = iota
	outcomeUpdated
	outcomeSkipped
	outcomeFailed
)

// Result summarizes one import operation. Added+Updated+Skipped+Failed
// equals the number of provider records the operation observed.
type Result struct {
	RunID      string
	Success    bool
	Added      int
	Updated    int
	Skipped    int
	Failed     int
	EntityType string
	Duration   time.Duration
	Error      string
}

func (r *Result) count(o outcome) {
	switch o {
	case outcomeAdded:
		r.Added++
	case outcomeUpdated:
		r.Updated++
	case outcomeSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
}

// Total returns the number of records accounted for.
func (r Result) Total() int {
	return r.Added + r.Updated + r.Skipped + r.Failed
}

// Changed reports whether the operation wrote anything.
func (r Result) Changed() bool {
	return r.Added > 0 || r.Updated > 0
}

// Summary returns a human-readable summary of the operation.
func (r Result) Summary() string {
	return fmt.Sprintf("entity=%s added=%d updated=%d skipped=%d failed=%d success=%v",
		r.EntityType, r.Added, r.Updated, r.Skipped, r.Failed, r.Success)
}

type resultJSON struct {
	RunID           string  `json:"run_id,omitempty"`
	Success         bool    `json:"success"`
	Added           int     `json:"added"`
	Updated         int     `json:"updated"`
	Skipped         int     `json:"skipped"`
	Failed          int     `json:"failed"`
	EntityType      string  `json:"entity_type"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Error           string  `json:"error,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		RunID:           r.RunID,
		Success:         r.Success,
		Added:           r.Added,
		Updated:         r.Updated,
		Skipped:         r.Skipped,
		Failed:          r.Failed,
		EntityType:      r.EntityType,
		Duration:        r.Duration.Round(time.Millisecond).String(),
		DurationSeconds: r.Duration.Seconds(),
		Error:           r.Error,
	})
}

// skippedResult is the placeholder for a stage that was never attempted.
func skippedResult(entity, reason string) Result {
	return Result{EntityType: entity, Error: reason}
}

// FullResult summarizes a three-stage historical import.
type FullResult struct {
	RunID         string        `json:"run_id"`
	Success       bool          `json:"success"`
	Players       Result        `json:"players"`
	Tournaments   Result        `json:"tournaments"`
	Rankings      Result        `json:"rankings"`
	TotalDuration time.Duration `json:"-"`
	Error         string        `json:"error,omitempty"`
}

// Summary returns a human-readable summary of all three stages.
func (r FullResult) Summary() string {
	return fmt.Sprintf("players=[%s] tournaments=[%s] rankings=[%s] success=%v dur=%s",
		r.Players.Summary(), r.Tournaments.Summary(), r.Rankings.Summary(),
		r.Success, r.TotalDuration.Round(time.Second))
}

func (r FullResult) MarshalJSON() ([]byte, error) {
	type alias FullResult
	return json.Marshal(struct {
		alias
		TotalDuration        string  `json:"total_duration"`
		TotalDurationSeconds float64 `json:"total_duration_seconds"`
	}{
		alias:                alias(r),
		TotalDuration:        r.TotalDuration.Round(time.Millisecond).String(),
		TotalDurationSeconds: r.TotalDuration.Seconds(),
	})
}

// Progress is a coarse checkpoint of a multi-stage import.
type Progress struct {
	CurrentOperation string  `json:"current_operation"`
	EntityType       string  `json:"entity_type"`
	Current          int     `json:"current"`
	Total            int     `json:"total"`
	PercentComplete  float64 `json:"percent_complete"`
}
