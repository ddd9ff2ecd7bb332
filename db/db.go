package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DB is the global database connection pool.
var DB *sql.DB

// InitDB initializes the database connection and ensures tables are created.
// owners are always added to the whitelist.
func InitDB(dataSourceName string, owners ...snowflake.ID) error {
	var err error
	DB, err = sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Ping DB to ensure connection is valid
	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	slog.Info("database connection established", slog.String("dataSource", dataSourceName))

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS rules ( revision TEXT PRIMARY KEY, source TEXT, document BLOB, loaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP )`,
		`CREATE TABLE IF NOT EXISTS whitelist ( user_id TEXT PRIMARY KEY )`,
		`CREATE TABLE IF NOT EXISTS blacklist ( channel_id TEXT PRIMARY KEY )`,
		`CREATE TABLE IF NOT EXISTS channel_cache ( channel_id TEXT PRIMARY KEY, cache BLOB )`,
		`CREATE TABLE IF NOT EXISTS global_stats ( stats BLOB )`,
		`CREATE TABLE IF NOT EXISTS users ( user_id TEXT PRIMARY KEY, last_interaction_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP )`,
	}

	for i, migration := range migrations {
		_, err = DB.Exec(migration)
		if err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", i+1, err)
		}
	}
	slog.Info("database tables ensured")

	// Ensure global_stats has one row
	var count int
	err = DB.QueryRow("SELECT COUNT(*) FROM global_stats").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to query global_stats count: %w", err)
	}
	if count == 0 {
		slog.Info("initializing global_stats row")
		data, err := json.Marshal(GlobalStats{})
		if err != nil {
			return fmt.Errorf("failed to marshal initial global stats: %w", err)
		}
		_, err = DB.Exec("INSERT INTO global_stats (stats) VALUES (?)", data)
		if err != nil {
			return fmt.Errorf("failed to insert initial global stats: %w", err)
		}
	}

	for _, id := range owners {
		AddToWhitelist(id)
	}

	return nil
}

// Close closes the global connection pool, if open.
func Close() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}
