package tennis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssociation(t *testing.T) {
	a, err := ParseAssociation("wta")
	require.NoError(t, err)
	assert.Equal(t, WTA, a)

	a, err = ParseAssociation(" ATP ")
	require.NoError(t, err)
	assert.Equal(t, ATP, a)

	_, err = ParseAssociation("ITF")
	assert.Error(t, err)
}

func TestParsers(t *testing.T) {
	t.Run("hand", func(t *testing.T) {
		assert.Equal(t, HandRight, ParseHand("RIGHT"))
		assert.Equal(t, HandLeft, ParseHand("left"))
		assert.Equal(t, HandUnknown, ParseHand("ambidextrous"))
		assert.Equal(t, HandUnknown, ParseHand(""))
	})

	t.Run("backhand", func(t *testing.T) {
		assert.Equal(t, BackhandOneHanded, ParseBackhand("One-Handed"))
		assert.Equal(t, BackhandOneHanded, ParseBackhand("1"))
		assert.Equal(t, BackhandTwoHanded, ParseBackhand("two handed"))
		assert.Equal(t, BackhandTwoHanded, ParseBackhand("2"))
		assert.Equal(t, BackhandUnknown, ParseBackhand("three-handed"))
	})

	t.Run("surface", func(t *testing.T) {
		assert.Equal(t, SurfaceHard, ParseSurface("Hard"))
		assert.Equal(t, SurfaceClay, ParseSurface("CLAY"))
		assert.Equal(t, SurfaceGrass, ParseSurface("grass"))
		assert.Equal(t, SurfaceCarpet, ParseSurface("Carpet"))
		assert.Equal(t, SurfaceUnknown, ParseSurface("Hard (indoor)"))
	})

	t.Run("string forms parse back", func(t *testing.T) {
		for _, h := range []Hand{HandUnknown, HandRight, HandLeft} {
			assert.Equal(t, h, ParseHand(h.String()))
		}
		for _, b := range []Backhand{BackhandUnknown, BackhandOneHanded, BackhandTwoHanded} {
			assert.Equal(t, b, ParseBackhand(b.String()))
		}
		for _, s := range []Surface{SurfaceUnknown, SurfaceHard, SurfaceClay, SurfaceGrass, SurfaceCarpet} {
			assert.Equal(t, s, ParseSurface(s.String()))
		}
	})
}

func TestRankChange(t *testing.T) {
	prev := 5
	change := RankChange(3, &prev)
	require.NotNil(t, change)
	assert.Equal(t, 2, *change)

	prev = 1
	assert.Equal(t, -4, *RankChange(5, &prev))

	assert.Nil(t, RankChange(3, nil))
}

func TestIsCompleted(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	assert.True(t, IsCompleted(&past, now))
	assert.False(t, IsCompleted(&future, now))
	assert.False(t, IsCompleted(nil, now))
}

func TestEnumsMarshalAsNames(t *testing.T) {
	b, err := json.Marshal(Player{Hand: HandLeft, Backhand: BackhandTwoHanded})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"hand":"Left"`)
	assert.Contains(t, string(b), `"backhand":"TwoHanded"`)
}
