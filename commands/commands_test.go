package commands

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeozeozeo/elizabot/db"
	"github.com/zeozeozeo/elizabot/eliza"
)

const testRulesJSON = `{
	"initial": ["Hello there."],
	"final": ["Goodbye."],
	"quit": ["bye"],
	"key": [
		{"word": "xnone", "weight": 0, "decomp": [{"pattern": "*", "reasmb": ["Please go on."]}]},
		{"word": "dream", "weight": 3, "decomp": [{"pattern": "* dream *", "reasmb": ["Tell me about (2)."]}]}
	]
}`

func TestStripMention(t *testing.T) {
	id := snowflake.ID(1234)
	assert.Equal(t, "hello", stripMention("<@1234> hello", id))
	assert.Equal(t, "hello", stripMention("<@!1234>   hello ", id))
	assert.Equal(t, "hi <@99>", stripMention("hi <@99> <@1234>", id))
}

func TestTextCommand(t *testing.T) {
	name, args, ok := textCommand(" !load_rules https://example.com/rules.json ")
	assert.True(t, ok)
	assert.Equal(t, "load_rules", name)
	assert.Equal(t, "https://example.com/rules.json", args)

	name, args, ok = textCommand("!PING")
	assert.True(t, ok)
	assert.Equal(t, "ping", name)
	assert.Empty(t, args)

	_, _, ok = textCommand("i had a dream")
	assert.False(t, ok)
	_, _, ok = textCommand("!")
	assert.False(t, ok)
}

func TestMentionsOnly(t *testing.T) {
	id := snowflake.ID(1)
	assert.True(t, mentionsOnly(discord.Message{Mentions: []discord.User{{ID: id}}}, id))
	assert.False(t, mentionsOnly(discord.Message{}, id))
	assert.False(t, mentionsOnly(discord.Message{Mentions: []discord.User{{ID: 2}}}, id))
	assert.False(t, mentionsOnly(discord.Message{Mentions: []discord.User{{ID: id}, {ID: 2}}}, id))
}

func TestKeywordChoices(t *testing.T) {
	words := []string{"remember", "dream", "dreamed", "xnone"}
	assert.Equal(t, words, keywordChoices("", words))

	choices := keywordChoices("drea", words)
	require.Len(t, choices, 2)
	assert.Equal(t, "dream", choices[0])

	assert.Empty(t, keywordChoices("zzz", words))

	many := make([]string, 40)
	for i := range many {
		many[i] = strings.Repeat("a", i+1)
	}
	assert.Len(t, keywordChoices("", many), 25)
}

func TestFormatKeyword(t *testing.T) {
	out := formatKeyword(eliza.Keyword{
		Word:   "dream",
		Weight: 3,
		Decompositions: []eliza.Decomposition{
			{Pattern: "* dream *", Reasmb: []string{"Tell me about (2).", "Really?"}},
		},
	})
	assert.Equal(t, "**dream** (weight 3)\n- `* dream *`\n  - Tell me about (2).\n  - Really?", out)

	long := eliza.Keyword{Word: "x", Decompositions: []eliza.Decomposition{{Pattern: "*", Reasmb: []string{strings.Repeat("a", 3000)}}}}
	assert.Len(t, []rune(formatKeyword(long)), 2000)
}

func TestEllipsisTrim(t *testing.T) {
	assert.Equal(t, "abc", ellipsisTrim("abc", 3))
	assert.Equal(t, "ab…", ellipsisTrim("abcd", 3))
}

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, db.InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() {
		db.Close()
		SetEngine(nil)
	})
}

func TestLoadRules(t *testing.T) {
	initTestDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rules.json":
			w.Write([]byte(testRulesJSON))
		case "/broken.json":
			w.Write([]byte(`{"key": []}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	revision, err := loadRules(context.Background(), srv.URL+"/rules.json")
	require.NoError(t, err)
	assert.NotEmpty(t, revision)

	engine := CurrentEngine()
	require.NotNil(t, engine)
	res, err := engine.Interact("I had a dream about cats")
	require.NoError(t, err)
	// "(2)." is replaced as a whole token
	assert.Equal(t, "Tell me about about cats", res.Message)

	stored, err := db.LatestRules()
	require.NoError(t, err)
	assert.Equal(t, revision, stored.Revision)

	// a bad document keeps the previous engine
	_, err = loadRules(context.Background(), srv.URL+"/broken.json")
	assert.ErrorIs(t, err, eliza.ErrMissingFallback)
	assert.Same(t, engine, CurrentEngine())

	_, err = loadRules(context.Background(), srv.URL+"/missing.json")
	assert.Error(t, err)
	assert.Same(t, engine, CurrentEngine())
}

func TestRestoreEngine(t *testing.T) {
	initTestDB(t)

	ok, err := RestoreEngine("")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, CurrentEngine())

	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(testRulesJSON), 0o644))
	ok, err = RestoreEngine(path)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, CurrentEngine())

	// stored rules win over the file from now on
	SetEngine(nil)
	ok, err = RestoreEngine(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.True(t, ok)
	greeting, err := CurrentEngine().Greeting()
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", greeting)
}

func testEngine(t *testing.T) *eliza.Engine {
	t.Helper()
	rules, err := eliza.ParseRules([]byte(testRulesJSON), eliza.FormatJSON)
	require.NoError(t, err)
	engine, err := eliza.New(rules)
	require.NoError(t, err)
	return engine
}

func TestRecordReply(t *testing.T) {
	initTestDB(t)
	engine := testEngine(t)
	const channel, author = snowflake.ID(9), snowflake.ID(5)

	assert.Equal(t, "never", userLastMessage(author))

	msg := recordReply(engine, channel, author, eliza.Response{Message: "Please go on."})
	assert.Equal(t, "Please go on.", msg)

	msg = recordReply(engine, channel, author, eliza.Response{Message: "Goodbye.", IsFarewell: true})
	assert.Equal(t, "Goodbye.", msg)
	assert.True(t, db.GetChannelCache(channel).Ended)

	// the next message starts a new conversation
	msg = recordReply(engine, channel, author, eliza.Response{Message: "Please go on."})
	assert.Equal(t, "Hello there.\nPlease go on.", msg)

	cache := db.GetChannelCache(channel)
	assert.False(t, cache.Ended)
	assert.EqualValues(t, 3, cache.Messages)

	stats, err := db.GetGlobalStats()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.MessageCount)
	assert.EqualValues(t, 1, stats.FarewellCount)

	users, err := db.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, 1, users)
	assert.Regexp(t, `^<t:\d+:R>$`, userLastMessage(author))
	assert.Equal(t, "never", userLastMessage(6))
}

func TestRecordReplyLogsStorageErrors(t *testing.T) {
	initTestDB(t)
	engine := testEngine(t)
	require.NoError(t, db.Close())

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	msg := recordReply(engine, 9, 5, eliza.Response{Message: "Please go on."})
	assert.Equal(t, "Please go on.", msg)

	logs := buf.String()
	assert.Contains(t, logs, "level=WARN msg=\"failed to update global stats\"")
	assert.Contains(t, logs, "level=WARN msg=\"failed to set interaction time\"")
	assert.Contains(t, logs, "user_id=5")
}

func TestBlacklistMessage(t *testing.T) {
	assert.Contains(t, blacklistMessage(true), "ignore mentions")
	assert.Contains(t, blacklistMessage(false), "listening")
	assert.Equal(t, 1, strings.Count(blacklistMessage(true), "%d"))
	assert.Equal(t, 1, strings.Count(blacklistMessage(false), "%d"))
}
