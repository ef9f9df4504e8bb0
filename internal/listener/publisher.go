package listener

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/tennis-stats/internal/importer"
)

var _ importer.Recorder = (*Publisher)(nil)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Publisher is an importer.Recorder that announces finished imports which
// wrote rows on Channel.
type Publisher struct {
	db     execer
	logger *slog.Logger
}

// NewPublisher creates a Publisher on db, typically the pool.
func NewPublisher(db execer, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{db: db, logger: logger}
}

func (p *Publisher) ImportStarted(entity string) {}

// ImportFinished publishes a ChangeEvent when the import added or updated rows.
func (p *Publisher) ImportFinished(entity string, r importer.Result) {
	if !r.Changed() {
		return
	}
	payload, err := json.Marshal(ChangeEvent{
		Entity:  entity,
		RunID:   r.RunID,
		Added:   r.Added,
		Updated: r.Updated,
	})
	if err != nil {
		p.logger.Warn("Failed to encode change event", "entity", entity, "error", err)
		return
	}
	if _, err := p.db.Exec(context.Background(), "SELECT pg_notify($1, $2)", Channel, string(payload)); err != nil {
		p.logger.Warn("Failed to publish change event", "entity", entity, "error", err)
	}
}
