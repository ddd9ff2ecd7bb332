package db

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zeozeozeo/elizabot/eliza"
)

// StoredRules is one ruleset revision as saved by SaveRules.
type StoredRules struct {
	Revision string
	// Source is where the rules came from, a URL or a file path.
	Source   string
	Rules    eliza.Rules
	LoadedAt time.Time
}

// SaveRules stores a new ruleset revision and returns its id. The newest
// revision is the one the bot boots with.
func SaveRules(source string, rules eliza.Rules) (string, error) {
	data, err := eliza.MarshalRules(rules)
	if err != nil {
		return "", fmt.Errorf("failed to marshal rules: %w", err)
	}
	revision := uuid.NewString()
	_, err = DB.Exec(
		"INSERT INTO rules (revision, source, document, loaded_at) VALUES (?, ?, ?, ?)",
		revision, source, data, time.Now().UTC(),
	)
	if err != nil {
		slog.Error("failed to save rules", slog.Any("err", err), slog.String("source", source))
		return "", err
	}
	slog.Info("saved rules", slog.String("revision", revision), slog.String("source", source))
	return revision, nil
}

// LatestRules returns the most recently saved ruleset. sql.ErrNoRows is
// returned when no ruleset was ever saved.
func LatestRules() (StoredRules, error) {
	var (
		stored StoredRules
		data   []byte
	)
	err := DB.QueryRow("SELECT revision, source, document, loaded_at FROM rules ORDER BY rowid DESC LIMIT 1").
		Scan(&stored.Revision, &stored.Source, &data, &stored.LoadedAt)
	if err != nil {
		return StoredRules{}, err
	}
	stored.Rules, err = eliza.ParseRules(data, eliza.FormatJSON)
	if err != nil {
		return StoredRules{}, fmt.Errorf("stored rules %s: %w", stored.Revision, err)
	}
	return stored, nil
}

// CountRulesRevisions returns how many rulesets were saved so far.
func CountRulesRevisions() (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM rules").Scan(&count)
	return count, err
}
