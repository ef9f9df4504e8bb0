// Package listener carries import change events between processes over
// Postgres LISTEN/NOTIFY. The ingest CLI publishes an event on the
// `tennis_data_changed` channel after every import that wrote rows; the API
// server listens on a dedicated pgx connection (not from the pool) and drops
// the cached reads the event makes stale.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/tennis-stats/internal/cache"
	"github.com/albapepper/tennis-stats/internal/importer"
)

const (
	Channel          = "tennis_data_changed"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// ChangeEvent is the JSON payload of pg_notify('tennis_data_changed', ...).
type ChangeEvent struct {
	Entity  string `json:"entity"`
	RunID   string `json:"run_id"`
	Added   int    `json:"added"`
	Updated int    `json:"updated"`
}

// Invalidator drops cached reads by key prefix.
type Invalidator interface {
	Invalidate(prefix string) int
}

// Start opens a dedicated connection and listens on Channel. It reconnects
// automatically on connection loss. Blocks until ctx is cancelled. Intended
// to be called with `go`.
func Start(ctx context.Context, dbURL string, c Invalidator, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, c, logger)
		if ctx.Err() != nil {
			logger.Info("Change listener stopped (context cancelled)")
			return
		}

		logger.Error("Change listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, c Invalidator, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("LISTEN %s: %w", Channel, err)
	}
	logger.Info("Change listener connected", "channel", Channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		handlePayload(notification.Payload, c, logger)
	}
}

func handlePayload(payload string, c Invalidator, logger *slog.Logger) {
	var event ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		logger.Warn("Failed to parse change event", "payload", payload, "error", err)
		return
	}

	dropped := 0
	for _, prefix := range prefixesFor(event.Entity) {
		dropped += c.Invalidate(prefix)
	}
	logger.Info("Change event received",
		"entity", event.Entity,
		"run_id", event.RunID,
		"added", event.Added,
		"updated", event.Updated,
		"cache_keys_dropped", dropped)
}

// prefixesFor maps an imported entity to the cached reads it affects.
// Ranking rows embed player names, so player changes reach rankings too.
func prefixesFor(entity string) []string {
	switch entity {
	case importer.EntityPlayers:
		return []string{cache.PrefixPlayer, cache.PrefixRankings}
	case importer.EntityRankings:
		return []string{cache.PrefixRankings}
	default:
		return nil
	}
}
