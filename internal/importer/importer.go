// Package importer reconciles provider records into the local store.
//
// Each import operation pages through a Source sequentially, looks every
// record up in a repository, inserts or updates it, flushes the batch and
// sleeps before the next page. Counts are accumulated into a Result that is
// always returned: failures, cancellation and panics are reported in the
// Result instead of as Go errors.
//
// Only one import is expected to run at a time per process. The importer
// itself does not enforce that; callers that trigger imports concurrently
// share a Gate.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/tennis-stats/internal/provider"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// PlayersPerPage is the fixed page size of player listings.
	PlayersPerPage = 25

	DefaultMaxPages = 100
	DefaultDelay    = time.Second
)

// ErrCancelled is reported when the caller's context ends during an import.
var ErrCancelled = errors.New("operation cancelled")

// --------------------------------------------------------------------------
// Collaborators
// --------------------------------------------------------------------------

// Source fetches normalized records from the provider. Implementations return
// an empty slice (or nil player) on any fetch failure.
type Source interface {
	GetPlayers(ctx context.Context, association tennis.Association, page, perPage int) []provider.Player
	GetPlayer(ctx context.Context, association tennis.Association, id int) *provider.Player
	GetTournaments(ctx context.Context, association tennis.Association, year int) []provider.Tournament
	GetRankings(ctx context.Context, association tennis.Association) []provider.Ranking
	GetSeasons(ctx context.Context, association tennis.Association) []provider.Season
}

// Lookups return (nil, nil) when no row matches.

type PlayerRepository interface {
	GetByExternalID(ctx context.Context, association tennis.Association, externalID int) (*tennis.Player, error)
	Add(ctx context.Context, p *tennis.Player) error
	Update(ctx context.Context, p *tennis.Player) error
}

type TournamentRepository interface {
	GetByExternalID(ctx context.Context, association tennis.Association, externalID int) (*tennis.Tournament, error)
	Add(ctx context.Context, t *tennis.Tournament) error
	Update(ctx context.Context, t *tennis.Tournament) error
}

type RankingRepository interface {
	GetForDate(ctx context.Context, playerID int, date time.Time) (*tennis.Ranking, error)
	Add(ctx context.Context, r *tennis.Ranking) error
	Update(ctx context.Context, r *tennis.Ranking) error
}

type SeasonRepository interface {
	GetByYear(ctx context.Context, association tennis.Association, year int) (*tennis.Season, error)
	Add(ctx context.Context, s *tennis.Season) error
	Update(ctx context.Context, s *tennis.Season) error
}

// UnitOfWork commits every pending add and update of the current batch.
type UnitOfWork interface {
	Save(ctx context.Context) error
}

// Repositories bundles the persistence boundary of the importer. All
// repositories write through the same UnitOfWork.
type Repositories struct {
	Players     PlayerRepository
	Tournaments TournamentRepository
	Rankings    RankingRepository
	Seasons     SeasonRepository
	UnitOfWork  UnitOfWork
}

// Recorder observes import runs, typically to export metrics.
type Recorder interface {
	ImportStarted(entity string)
	ImportFinished(entity string, result Result)
}

// discarder is implemented by units of work that can drop unsaved writes.
type discarder interface {
	Discard(ctx context.Context)
}

type noopRecorder struct{}

func (noopRecorder) ImportStarted(string) {}
func (noopRecorder) ImportFinished(string, Result) {}

// --------------------------------------------------------------------------
// Importer
// --------------------------------------------------------------------------

// Importer runs import operations against one Source and one store.
type Importer struct {
	source  Source
	repos   Repositories
	tracker *Tracker
	metrics Recorder
	logger  *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an Importer. tracker, recorder and logger may be nil; a nil
// tracker gets a private one, which makes Status only reflect this Importer.
func New(source Source, repos Repositories, tracker *Tracker, recorder Recorder, logger *slog.Logger) *Importer {
	if tracker == nil {
		tracker = NewTracker()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		source:  source,
		repos:   repos,
		tracker: tracker,
		metrics: recorder,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		sleep:   sleepContext,
	}
}

// Status returns the current snapshot of the shared tracker.
func (im *Importer) Status() Status {
	return im.tracker.Snapshot()
}

// run executes one import operation. body fills in counts; run owns status
// tracking, panic recovery, timing, metrics and the final log line.
func (im *Importer) run(
	ctx context.Context,
	entity string,
	association tennis.Association,
	body func(ctx context.Context, logger *slog.Logger, res *Result) error,
) (res Result) {
	start := time.Now()
	res = Result{RunID: uuid.NewString(), EntityType: entity}
	logger := im.logger.With("run_id", res.RunID, "entity", entity, "association", association)

	im.metrics.ImportStarted(entity)
	im.tracker.Begin()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Import aborted by unexpected error", "panic", r)
			if d, ok := im.repos.UnitOfWork.(discarder); ok {
				d.Discard(context.WithoutCancel(ctx))
			}
			res.Success = false
			res.Error = fmt.Sprintf("unexpected error: %v", r)
		}
		res.Duration = time.Since(start)
		im.tracker.Finish()
		im.metrics.ImportFinished(entity, res)
	}()

	err := body(ctx, logger, &res)
	switch {
	case errors.Is(err, ErrCancelled):
		res.Error = ErrCancelled.Error()
		logger.Warn("Import cancelled", "summary", res.Summary())
	case err != nil:
		res.Error = err.Error()
		logger.Error("Import failed", "error", err, "summary", res.Summary())
	default:
		res.Success = true
		logger.Info("Import complete", "duration", time.Since(start).Round(time.Millisecond), "summary", res.Summary())
	}
	return res
}

// reconcile runs one record's work. Panics are converted into errors so a
// single bad record never aborts the batch.
func reconcile(fn func() (outcome, error)) (o outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			o, err = outcomeFailed, fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// sleepContext waits d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ErrCancelled
	case <-timer.C:
		return nil
	}
}

func percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(done) / float64(total) * 100
	if p > 100 {
		return 100
	}
	return p
}
