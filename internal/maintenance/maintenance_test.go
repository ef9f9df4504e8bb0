package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennis-stats/internal/cache"
	"github.com/albapepper/tennis-stats/internal/config"
	"github.com/albapepper/tennis-stats/internal/importer"
	"github.com/albapepper/tennis-stats/internal/store/memory"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeRankings struct {
	mu    sync.Mutex
	calls []tennis.Association

	ImportRankingsFunc func(ctx context.Context, a tennis.Association) importer.Result
}

func (f *fakeRankings) ImportRankings(ctx context.Context, a tennis.Association) importer.Result {
	f.mu.Lock()
	f.calls = append(f.calls, a)
	f.mu.Unlock()
	return f.ImportRankingsFunc(ctx, a)
}

func (f *fakeRankings) Calls() []tennis.Association {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tennis.Association(nil), f.calls...)
}

type failingCompleter struct{}

func (failingCompleter) CompleteFinishedTournaments(ctx context.Context, now time.Time) (int, error) {
	return 0, errors.New("connection reset")
}

func TestSyncRankingsContinuesPastFailure(t *testing.T) {
	f := &fakeRankings{ImportRankingsFunc: func(ctx context.Context, a tennis.Association) importer.Result {
		if a == tennis.WTA {
			return importer.Result{Success: false, Error: "provider down"}
		}
		return importer.Result{Success: true, Updated: 4}
	}}
	c := cache.New(true)
	c.Set(cache.PrefixRankings+"ATP:100", []byte(`[]`), time.Hour)
	c.Set(cache.PrefixPlayer+"3", []byte(`{}`), time.Hour)

	syncRankings(context.Background(), Deps{Rankings: f, Cache: c}, []tennis.Association{tennis.WTA, tennis.ATP}, discard)

	assert.Equal(t, []tennis.Association{tennis.WTA, tennis.ATP}, f.Calls())
	_, _, ok := c.Get(cache.PrefixRankings + "ATP:100")
	assert.False(t, ok)
	_, _, ok = c.Get(cache.PrefixPlayer + "3")
	assert.True(t, ok)
}

func TestSyncRankingsKeepsCacheWhenUnchanged(t *testing.T) {
	f := &fakeRankings{ImportRankingsFunc: func(ctx context.Context, a tennis.Association) importer.Result {
		return importer.Result{Success: true, Skipped: 100}
	}}
	c := cache.New(true)
	c.Set(cache.PrefixRankings+"WTA:100", []byte(`[]`), time.Hour)

	syncRankings(context.Background(), Deps{Rankings: f, Cache: c}, []tennis.Association{tennis.WTA}, discard)

	_, _, ok := c.Get(cache.PrefixRankings + "WTA:100")
	assert.True(t, ok)
}

func TestSyncRankingsStopsWhenCancelled(t *testing.T) {
	f := &fakeRankings{ImportRankingsFunc: func(ctx context.Context, a tennis.Association) importer.Result {
		return importer.Result{Success: true}
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	syncRankings(ctx, Deps{Rankings: f}, []tennis.Association{tennis.WTA, tennis.ATP}, discard)
	assert.Empty(t, f.Calls())
}

func TestSyncRankingsSkippedWhileImportRuns(t *testing.T) {
	f := &fakeRankings{ImportRankingsFunc: func(ctx context.Context, a tennis.Association) importer.Result {
		return importer.Result{Success: true, Added: 1}
	}}
	gate := importer.NewGate()
	deps := Deps{Rankings: f, Gate: gate}

	require.True(t, gate.TryAcquire())
	syncRankings(context.Background(), deps, []tennis.Association{tennis.WTA}, discard)
	assert.Empty(t, f.Calls(), "tick skipped while another import holds the gate")
	gate.Release()

	syncRankings(context.Background(), deps, []tennis.Association{tennis.WTA}, discard)
	assert.Equal(t, []tennis.Association{tennis.WTA}, f.Calls())
	assert.True(t, gate.TryAcquire(), "sync releases the gate")
	gate.Release()
}

func TestSyncRankingsHoldsGateDuringImport(t *testing.T) {
	gate := importer.NewGate()
	var heldDuringImport bool
	f := &fakeRankings{ImportRankingsFunc: func(ctx context.Context, a tennis.Association) importer.Result {
		heldDuringImport = !gate.TryAcquire()
		return importer.Result{Success: true}
	}}

	syncRankings(context.Background(), Deps{Rankings: f, Gate: gate}, []tennis.Association{tennis.ATP}, discard)
	assert.True(t, heldDuringImport)
}

func TestCompleteTournaments(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	past := time.Date(2025, 1, 26, 0, 0, 0, 0, time.UTC)
	future := time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Tournaments().Add(ctx, &tennis.Tournament{ExternalID: 1, Name: "Australian Open", EndDate: &past, Association: tennis.WTA}))
	require.NoError(t, s.Tournaments().Add(ctx, &tennis.Tournament{ExternalID: 2, Name: "Wimbledon", EndDate: &future, Association: tennis.WTA}))

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	completeTournaments(ctx, Deps{Tournaments: s}, now, discard)

	ao, err := s.Tournaments().GetByExternalID(ctx, tennis.WTA, 1)
	require.NoError(t, err)
	assert.True(t, ao.IsCompleted)
	wimbledon, err := s.Tournaments().GetByExternalID(ctx, tennis.WTA, 2)
	require.NoError(t, err)
	assert.False(t, wimbledon.IsCompleted)
}

func TestCompleteTournamentsErrorIsLogged(t *testing.T) {
	assert.NotPanics(t, func() {
		completeTournaments(context.Background(), Deps{Tournaments: failingCompleter{}}, time.Now(), discard)
	})
}

func TestStartRunsTickersUntilCancelled(t *testing.T) {
	f := &fakeRankings{ImportRankingsFunc: func(ctx context.Context, a tennis.Association) importer.Result {
		return importer.Result{Success: true}
	}}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Start(ctx, Deps{Rankings: f}, Config{
			RankingsInterval: 5 * time.Millisecond,
			Associations:     []tennis.Association{tennis.ATP},
		}, discard)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(f.Calls()) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(&config.Config{
		SyncRankingsInterval:   6 * time.Hour,
		SyncCompletionInterval: time.Hour,
		SyncAssociations:       []tennis.Association{tennis.WTA},
	})
	assert.Equal(t, 6*time.Hour, cfg.RankingsInterval)
	assert.Equal(t, time.Hour, cfg.CompletionInterval)
	assert.Equal(t, []tennis.Association{tennis.WTA}, cfg.Associations)
}
