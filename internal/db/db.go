// Package db provides a pgxpool-based connection pool with prepared statement
// registration, health checking and schema migrations.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/tennis-stats/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Column lists shared by the statements below and the scanners in
// internal/store/postgres. Order matters.
const (
	PlayerColumns = `id, external_id, association, first_name, last_name, full_name, country,
		date_of_birth, height_cm, weight_kg, hand, backhand, turned_pro_year, image_url,
		is_active, last_synced_at`

	TournamentColumns = `id, external_id, association, season_id, name, city, country, surface,
		start_date, end_date, prize_money, currency, category, is_completed, last_synced_at`

	SeasonColumns = `id, external_id, year, association, start_date, end_date, is_current`

	RankingColumns = `id, external_id, player_id, season_id, association, rank, points,
		previous_rank, rank_change, ranking_date, last_synced_at`
)

// registerPreparedStatements registers all statements the API and import
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Import: players
		"player_by_external_id": "SELECT " + PlayerColumns + " FROM players WHERE association = $1 AND external_id = $2",
		"player_insert": `INSERT INTO players (external_id, association, first_name, last_name, full_name, country,
			date_of_birth, height_cm, weight_kg, hand, backhand, turned_pro_year, image_url, is_active, last_synced_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`,
		"player_update": `UPDATE players SET first_name = $2, last_name = $3, full_name = $4, country = $5,
			date_of_birth = $6, height_cm = $7, weight_kg = $8, hand = $9, backhand = $10,
			turned_pro_year = $11, image_url = $12, is_active = $13, last_synced_at = $14
			WHERE id = $1`,

		// Import: tournaments
		"tournament_by_external_id": "SELECT " + TournamentColumns + " FROM tournaments WHERE association = $1 AND external_id = $2",
		"tournament_insert": `INSERT INTO tournaments (external_id, association, season_id, name, city, country, surface,
			start_date, end_date, prize_money, currency, category, is_completed, last_synced_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`,
		"tournament_update": `UPDATE tournaments SET season_id = $2, name = $3, city = $4, country = $5, surface = $6,
			start_date = $7, end_date = $8, prize_money = $9, currency = $10, category = $11,
			is_completed = $12, last_synced_at = $13
			WHERE id = $1`,

		// Import: seasons. A concurrent insert of the same key resolves to
		// the existing row instead of failing.
		"season_by_year": "SELECT " + SeasonColumns + " FROM seasons WHERE association = $1 AND year = $2",
		"season_insert": `INSERT INTO seasons (external_id, year, association, start_date, end_date, is_current)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (association, year) DO UPDATE SET association = EXCLUDED.association
			RETURNING id`,
		"season_update": `UPDATE seasons SET external_id = $2, start_date = $3, end_date = $4, is_current = $5 WHERE id = $1`,

		// Import: rankings
		"ranking_for_date": "SELECT " + RankingColumns + " FROM rankings WHERE player_id = $1 AND ranking_date = $2",
		"ranking_insert": `INSERT INTO rankings (external_id, player_id, season_id, association, rank, points,
			previous_rank, rank_change, ranking_date, last_synced_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		"ranking_update": `UPDATE rankings SET rank = $2, points = $3, previous_rank = $4, rank_change = $5,
			last_synced_at = $6
			WHERE id = $1`,

		// API: reads
		"player_by_id": "SELECT " + PlayerColumns + " FROM players WHERE id = $1",
		"top_rankings": `SELECT r.id, r.external_id, r.player_id, r.season_id, r.association, r.rank, r.points,
			r.previous_rank, r.rank_change, r.ranking_date, r.last_synced_at, p.full_name, p.country
			FROM rankings r
			JOIN players p ON p.id = r.player_id
			WHERE r.association = $1
			  AND r.ranking_date = (SELECT max(ranking_date) FROM rankings WHERE association = $1)
			ORDER BY r.rank
			LIMIT $2`,

		// Maintenance
		"complete_finished_tournaments": "UPDATE tournaments SET is_completed = true WHERE NOT is_completed AND end_date < $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
