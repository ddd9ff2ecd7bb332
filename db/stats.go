package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// GlobalStats holds the global usage statistics for the bot.
type GlobalStats struct {
	// total number of replies sent
	MessageCount uint `json:"message_count"`
	// replies that ended a conversation
	FarewellCount   uint      `json:"farewell_count"`
	LastMessageTime time.Time `json:"last_message_time"`
}

func unmarshalGlobalStats(data []byte) (GlobalStats, error) {
	var stats GlobalStats
	err := json.Unmarshal(data, &stats)
	return stats, err
}

// Write saves the GlobalStats to the database.
func (s GlobalStats) Write() error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	// Assumes the table exists and has exactly one row.
	_, err = DB.Exec("UPDATE global_stats SET stats = ? WHERE EXISTS (SELECT 1 FROM global_stats)", data)
	return err
}

// GetGlobalStats retrieves the GlobalStats from the database.
func GetGlobalStats() (GlobalStats, error) {
	var data []byte
	err := DB.QueryRow("SELECT stats FROM global_stats").Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Error("global_stats table is empty")
			return GlobalStats{}, nil
		}
		return GlobalStats{}, err
	}
	return unmarshalGlobalStats(data)
}

// UpdateGlobalStats records one reply.
func UpdateGlobalStats(farewell bool) error {
	stats, err := GetGlobalStats()
	if err != nil {
		slog.Error("UpdateGlobalStats: failed to get global stats", slog.Any("err", err))
		return err
	}
	stats.MessageCount++
	if farewell {
		stats.FarewellCount++
	}
	stats.LastMessageTime = time.Now()
	if err := stats.Write(); err != nil {
		slog.Error("UpdateGlobalStats: failed to write global stats", slog.Any("err", err))
		return err
	}
	return nil
}
