// Package postgres implements the import repositories and read queries on
// top of the shared pgx pool.
//
// Writes are batched in a unit of work: the first write opens a transaction,
// every write runs inside its own savepoint so one failed record does not
// poison the batch, and Save commits. Lookups read through the open
// transaction so a batch sees its own uncommitted rows.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/tennis-stats/internal/db"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// querier is satisfied by the pool and by a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is safe for concurrent use, but all callers share one unit of work.
type Store struct {
	pool   *db.Pool
	logger *slog.Logger

	mu      sync.Mutex
	tx      pgx.Tx
	pending int
}

// New creates a store on pool.
func New(pool *db.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}
}

func (s *Store) Players() *PlayerRepo         { return &PlayerRepo{s} }
func (s *Store) Tournaments() *TournamentRepo { return &TournamentRepo{s} }
func (s *Store) Seasons() *SeasonRepo         { return &SeasonRepo{s} }
func (s *Store) Rankings() *RankingRepo       { return &RankingRepo{s} }

// read runs fn against the open transaction, or the pool when none is open.
func (s *Store) read(ctx context.Context, fn func(q querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		return fn(s.tx)
	}
	return fn(s.pool)
}

// write runs fn in a savepoint of the unit of work, opening it if needed.
func (s *Store) write(ctx context.Context, fn func(q querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		s.tx = tx
	}

	sp, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := fn(sp); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			s.logger.Warn("Savepoint rollback failed", "error", rbErr)
		}
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	s.pending++
	return nil
}

// Save commits the unit of work. It is a no-op when nothing was written.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil
	}
	tx, pending := s.tx, s.pending
	s.tx, s.pending = nil, 0
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %d writes: %w", pending, err)
	}
	s.logger.Debug("Committed batch", "writes", pending)
	return nil
}

// Discard rolls back any uncommitted writes.
func (s *Store) Discard(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return
	}
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.logger.Warn("Rollback failed", "error", err)
	}
	s.tx, s.pending = nil, 0
}

// --------------------------------------------------------------------------
// Scanning helpers
// --------------------------------------------------------------------------

// getOne runs a single-row query and maps pgx.ErrNoRows to (nil, nil).
func getOne[T any](ctx context.Context, s *Store, scan func(pgx.Row) (*T, error), sql string, args ...any) (*T, error) {
	var out *T
	err := s.read(ctx, func(q querier) error {
		v, err := scan(q.QueryRow(ctx, sql, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// dateArg passes optional calendar dates to DATE columns.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return tennis.DateOnly(*t)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
