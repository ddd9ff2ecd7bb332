package db

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeozeozeo/elizabot/eliza"
)

// initTestDB points the global DB at a fresh database file. Tests using it
// must not run in parallel.
func initTestDB(t *testing.T, owners ...snowflake.ID) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "test.db"), owners...))
	t.Cleanup(func() { Close() })
}

func testRules(reply string) eliza.Rules {
	return eliza.Rules{
		Initial: []string{"hi"},
		Quit:    []string{"bye"},
		Keywords: []eliza.Keyword{{
			Word:           "xnone",
			Decompositions: []eliza.Decomposition{{Pattern: "*", Reasmb: []string{reply}}},
		}},
	}
}

func TestRulesRevisions(t *testing.T) {
	initTestDB(t)

	_, err := LatestRules()
	assert.ErrorIs(t, err, sql.ErrNoRows)

	first, err := SaveRules("https://example.com/a.json", testRules("first"))
	require.NoError(t, err)
	second, err := SaveRules("rules/b.yaml", testRules("second"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	stored, err := LatestRules()
	require.NoError(t, err)
	assert.Equal(t, second, stored.Revision)
	assert.Equal(t, "rules/b.yaml", stored.Source)
	assert.Equal(t, testRules("second"), stored.Rules)
	assert.False(t, stored.LoadedAt.IsZero())

	count, err := CountRulesRevisions()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGlobalStats(t *testing.T) {
	initTestDB(t)

	stats, err := GetGlobalStats()
	require.NoError(t, err)
	assert.Zero(t, stats.MessageCount)

	require.NoError(t, UpdateGlobalStats(false))
	require.NoError(t, UpdateGlobalStats(true))

	stats, err = GetGlobalStats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.MessageCount)
	assert.EqualValues(t, 1, stats.FarewellCount)
	assert.False(t, stats.LastMessageTime.IsZero())
}

func TestWhitelist(t *testing.T) {
	owner := snowflake.ID(890686470556356619)
	initTestDB(t, owner)

	assert.True(t, IsInWhitelist(owner))
	assert.False(t, IsInWhitelist(42))

	require.NoError(t, AddToWhitelist(42))
	require.NoError(t, AddToWhitelist(42))
	assert.True(t, IsInWhitelist(42))

	require.NoError(t, RemoveFromWhitelist(42))
	assert.False(t, IsInWhitelist(42))
}

func TestBlacklist(t *testing.T) {
	initTestDB(t)

	assert.False(t, IsChannelInBlacklist(7))
	require.NoError(t, SetChannelBlacklisted(7, true))
	require.NoError(t, SetChannelBlacklisted(7, true))
	assert.True(t, IsChannelInBlacklist(7))
	assert.False(t, IsChannelInBlacklist(8))

	blacklisted, err := ToggleChannelBlacklist(7)
	require.NoError(t, err)
	assert.False(t, blacklisted)
	assert.False(t, IsChannelInBlacklist(7))

	blacklisted, err = ToggleChannelBlacklist(7)
	require.NoError(t, err)
	assert.True(t, blacklisted)
	assert.True(t, IsChannelInBlacklist(7))
}

func TestChannelCache(t *testing.T) {
	initTestDB(t)

	cache := GetChannelCache(9)
	assert.Equal(t, ChannelCache{}, *cache)

	cache.Messages = 3
	cache.Ended = true
	cache.UpdateInteractionTime()
	require.NoError(t, cache.Write(9))

	got := GetChannelCache(9)
	assert.EqualValues(t, 3, got.Messages)
	assert.True(t, got.Ended)
	assert.WithinDuration(t, cache.LastInteraction, got.LastInteraction, 0)
}

func TestUsers(t *testing.T) {
	initTestDB(t)

	assert.True(t, GetInteractionTime(5).IsZero())
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, SetInteractionTime(5, now))
	require.NoError(t, SetInteractionTime(5, now))
	require.NoError(t, SetInteractionTime(6, now))

	assert.True(t, now.Equal(GetInteractionTime(5)))
	count, err := CountUsers()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
