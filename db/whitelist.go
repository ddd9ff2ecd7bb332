package db

import (
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
)

// The whitelist holds the users allowed to replace the active ruleset.

// AddToWhitelist adds a user ID to the whitelist table.
func AddToWhitelist(id snowflake.ID) error {
	_, err := DB.Exec("INSERT OR IGNORE INTO whitelist (user_id) VALUES (?)", id.String())
	if err != nil {
		slog.Error("failed to add user to whitelist", slog.Any("err", err), slog.String("user_id", id.String()))
	}
	return err
}

// RemoveFromWhitelist removes a user ID from the whitelist table.
func RemoveFromWhitelist(id snowflake.ID) error {
	_, err := DB.Exec("DELETE FROM whitelist WHERE user_id = ?", id.String())
	if err != nil {
		slog.Error("failed to remove user from whitelist", slog.Any("err", err), slog.String("user_id", id.String()))
	}
	return err
}

// IsInWhitelist checks if a user ID exists in the whitelist table. Errors
// count as not whitelisted.
func IsInWhitelist(id snowflake.ID) bool {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM whitelist WHERE user_id = ?", id.String()).Scan(&count)
	if err != nil {
		slog.Error("failed to check if user is in whitelist", slog.Any("err", err), slog.String("user_id", id.String()))
	}
	return count > 0
}
