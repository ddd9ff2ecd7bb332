package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// ChannelCache holds the per-channel conversation state.
type ChannelCache struct {
	// Messages is the number of replies sent in this channel.
	Messages uint `json:"messages"`
	// Ended is set after a farewell; the next message starts a new conversation.
	Ended bool `json:"ended,omitempty"`
	// LastInteraction records the timestamp of the last reply in this channel.
	LastInteraction time.Time `json:"last_interaction"`
}

// UpdateInteractionTime updates the LastInteraction timestamp to now.
func (cache *ChannelCache) UpdateInteractionTime() {
	cache.LastInteraction = time.Now()
}

// Write saves the ChannelCache state to the database for the given channel ID.
func (cache ChannelCache) Write(id snowflake.ID) error {
	slog.Debug("writing channel cache", slog.String("channel_id", id.String()))
	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}
	_, err = DB.Exec("INSERT OR REPLACE INTO channel_cache (channel_id, cache) VALUES (?, ?)", id.String(), data)
	if err != nil {
		slog.Error("failed to write channel cache to DB", slog.Any("err", err), slog.String("channel_id", id.String()))
	}
	return err
}

// GetChannelCache retrieves the ChannelCache for a given ID from the database.
// It always returns a valid cache (a new one if not found or on error).
func GetChannelCache(id snowflake.ID) *ChannelCache {
	var data []byte
	err := DB.QueryRow("SELECT cache FROM channel_cache WHERE channel_id = ?", id.String()).Scan(&data)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("failed to get channel cache from DB", slog.Any("err", err), slog.String("channel_id", id.String()))
		}
		return &ChannelCache{}
	}

	var cache ChannelCache
	if err := json.Unmarshal(data, &cache); err != nil {
		slog.Warn("failed to unmarshal channel cache", slog.Any("err", err), slog.String("channel_id", id.String()))
		return &ChannelCache{}
	}
	return &cache
}
