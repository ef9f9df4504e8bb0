package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennis-stats/internal/tennis"
)

func TestPlayerLookupIsScopedByAssociation(t *testing.T) {
	ctx := context.Background()
	s := New()

	wta := &tennis.Player{ExternalID: 7, Association: tennis.WTA, FullName: "A"}
	require.NoError(t, s.Players().Add(ctx, wta))
	assert.NotZero(t, wta.ID)

	got, err := s.Players().GetByExternalID(ctx, tennis.ATP, 7)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.Players().GetByExternalID(ctx, tennis.WTA, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, wta.ID, got.ID)

	assert.Error(t, s.Players().Add(ctx, &tennis.Player{ExternalID: 7, Association: tennis.WTA}))
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Players().Add(ctx, &tennis.Player{ExternalID: 1, Association: tennis.WTA, FullName: "Before"}))

	got, _ := s.Players().GetByExternalID(ctx, tennis.WTA, 1)
	got.FullName = "After"

	again, _ := s.Players().GetByExternalID(ctx, tennis.WTA, 1)
	assert.Equal(t, "Before", again.FullName)

	require.NoError(t, s.Players().Update(ctx, got))
	again, _ = s.Players().GetByExternalID(ctx, tennis.WTA, 1)
	assert.Equal(t, "After", again.FullName)
}

func TestSeasonUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Seasons().Add(ctx, &tennis.Season{Year: 2024, Association: tennis.WTA}))
	assert.Error(t, s.Seasons().Add(ctx, &tennis.Season{Year: 2024, Association: tennis.WTA}))
	assert.NoError(t, s.Seasons().Add(ctx, &tennis.Season{Year: 2024, Association: tennis.ATP}))
}

func TestTopRankingsUsesLatestDate(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := &tennis.Player{ExternalID: 1, Association: tennis.WTA, FullName: "Alpha", Country: "POL"}
	b := &tennis.Player{ExternalID: 2, Association: tennis.WTA, FullName: "Beta"}
	require.NoError(t, s.Players().Add(ctx, a))
	require.NoError(t, s.Players().Add(ctx, b))

	old := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2025, 1, 6, 15, 0, 0, 0, time.UTC)
	require.NoError(t, s.Rankings().Add(ctx, &tennis.Ranking{PlayerID: a.ID, Rank: 1, RankingDate: old, Association: tennis.WTA}))
	require.NoError(t, s.Rankings().Add(ctx, &tennis.Ranking{PlayerID: b.ID, Rank: 1, RankingDate: latest, Association: tennis.WTA}))
	require.NoError(t, s.Rankings().Add(ctx, &tennis.Ranking{PlayerID: a.ID, Rank: 2, RankingDate: latest, Association: tennis.WTA}))

	rows, err := s.TopRankings(ctx, tennis.WTA, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Beta", rows[0].PlayerName)
	assert.Equal(t, "Alpha", rows[1].PlayerName)
	assert.Equal(t, "POL", rows[1].Country)

	rows, err = s.TopRankings(ctx, tennis.WTA, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = s.TopRankings(ctx, tennis.ATP, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRankingDateIsTruncated(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Rankings().Add(ctx, &tennis.Ranking{PlayerID: 1, RankingDate: time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC)}))

	got, err := s.Rankings().GetForDate(ctx, 1, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestCompleteFinishedTournaments(t *testing.T) {
	ctx := context.Background()
	s := New()
	past := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Tournaments().Add(ctx, &tennis.Tournament{ExternalID: 1, Association: tennis.WTA, EndDate: &past}))
	require.NoError(t, s.Tournaments().Add(ctx, &tennis.Tournament{ExternalID: 2, Association: tennis.WTA, EndDate: &future}))
	require.NoError(t, s.Tournaments().Add(ctx, &tennis.Tournament{ExternalID: 3, Association: tennis.WTA}))

	n, err := s.CompleteFinishedTournaments(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.CompleteFinishedTournaments(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)
}
