package db

import (
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
)

// The blacklist holds the channels where mentions are ignored.

// IsChannelInBlacklist reports whether the bot stays silent in a channel.
// Errors count as not blacklisted.
func IsChannelInBlacklist(id snowflake.ID) bool {
	var exists bool
	err := DB.QueryRow("SELECT EXISTS (SELECT 1 FROM blacklist WHERE channel_id = ?)", id.String()).Scan(&exists)
	if err != nil {
		slog.Error("failed to check channel blacklist", slog.Any("err", err), slog.String("channel_id", id.String()))
	}
	return exists
}

// SetChannelBlacklisted silences or unsilences a channel.
func SetChannelBlacklisted(id snowflake.ID, blacklisted bool) error {
	query := "DELETE FROM blacklist WHERE channel_id = ?"
	if blacklisted {
		query = "INSERT OR IGNORE INTO blacklist (channel_id) VALUES (?)"
	}
	if _, err := DB.Exec(query, id.String()); err != nil {
		slog.Error("failed to update channel blacklist", slog.Any("err", err), slog.String("channel_id", id.String()), slog.Bool("blacklisted", blacklisted))
		return err
	}
	return nil
}

// ToggleChannelBlacklist flips the blacklist state of a channel and returns
// the new state.
func ToggleChannelBlacklist(id snowflake.ID) (bool, error) {
	blacklisted := !IsChannelInBlacklist(id)
	return blacklisted, SetChannelBlacklisted(id, blacklisted)
}
