package listener

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennis-stats/internal/cache"
	"github.com/albapepper/tennis-stats/internal/importer"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type execCall struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql, args})
	return pgconn.CommandTag{}, f.err
}

func seededCache() *cache.Cache {
	c := cache.New(true)
	c.Set(cache.PrefixPlayer+"1", []byte(`{}`), time.Hour)
	c.Set(cache.PrefixRankings+"WTA:100", []byte(`[]`), time.Hour)
	return c
}

func cached(c *cache.Cache, key string) bool {
	_, _, ok := c.Get(key)
	return ok
}

func TestHandlePayloadInvalidatesByEntity(t *testing.T) {
	tests := []struct {
		entity       string
		wantPlayer   bool
		wantRankings bool
	}{
		{importer.EntityPlayers, false, false},
		{importer.EntityRankings, true, false},
		{importer.EntityTournaments, true, true},
		{importer.EntitySeasons, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.entity, func(t *testing.T) {
			c := seededCache()
			payload, err := json.Marshal(ChangeEvent{Entity: tt.entity, RunID: "r1", Added: 1})
			require.NoError(t, err)

			handlePayload(string(payload), c, discard)

			assert.Equal(t, tt.wantPlayer, cached(c, cache.PrefixPlayer+"1"))
			assert.Equal(t, tt.wantRankings, cached(c, cache.PrefixRankings+"WTA:100"))
		})
	}
}

func TestHandlePayloadIgnoresGarbage(t *testing.T) {
	c := seededCache()
	handlePayload("not json", c, discard)
	assert.True(t, cached(c, cache.PrefixPlayer+"1"))
	assert.True(t, cached(c, cache.PrefixRankings+"WTA:100"))
}

func TestPublisherSkipsUnchangedImports(t *testing.T) {
	db := &fakeExecer{}
	p := NewPublisher(db, discard)

	p.ImportStarted(importer.EntityRankings)
	p.ImportFinished(importer.EntityRankings, importer.Result{Success: true, Skipped: 400})
	assert.Empty(t, db.calls)
}

func TestPublisherNotifies(t *testing.T) {
	db := &fakeExecer{}
	p := NewPublisher(db, discard)

	p.ImportFinished(importer.EntityPlayers, importer.Result{RunID: "abc", Success: true, Added: 3, Updated: 2})

	require.Len(t, db.calls, 1)
	call := db.calls[0]
	assert.Equal(t, "SELECT pg_notify($1, $2)", call.sql)
	require.Len(t, call.args, 2)
	assert.Equal(t, Channel, call.args[0])

	var event ChangeEvent
	require.NoError(t, json.Unmarshal([]byte(call.args[1].(string)), &event))
	assert.Equal(t, ChangeEvent{Entity: importer.EntityPlayers, RunID: "abc", Added: 3, Updated: 2}, event)
}

func TestPublisherErrorIsNotFatal(t *testing.T) {
	db := &fakeExecer{err: errors.New("connection closed")}
	p := NewPublisher(db, discard)
	assert.NotPanics(t, func() {
		p.ImportFinished(importer.EntityRankings, importer.Result{Updated: 1})
	})
	assert.Len(t, db.calls, 1)
}
