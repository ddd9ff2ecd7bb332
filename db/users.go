package db

import (
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// SetInteractionTime records when a user last talked to the bot.
func SetInteractionTime(id snowflake.ID, t time.Time) error {
	_, err := DB.Exec(
		"INSERT OR REPLACE INTO users (user_id, last_interaction_time) VALUES (?, ?)",
		id.String(), t,
	)
	if err != nil {
		slog.Error("failed to set last interaction time", slog.Any("err", err), slog.String("user_id", id.String()))
	}
	return err
}

func GetInteractionTime(id snowflake.ID) time.Time {
	var t time.Time
	err := DB.QueryRow("SELECT last_interaction_time FROM users WHERE user_id = ?", id.String()).Scan(&t)
	if err != nil {
		slog.Debug("failed to get last interaction time", slog.Any("err", err), slog.String("user_id", id.String()))
		return time.Time{}
	}
	return t
}

// CountUsers returns the number of distinct users that ever got a reply.
func CountUsers() (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
