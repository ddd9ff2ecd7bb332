package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/zeozeozeo/elizabot/db"
	"github.com/zeozeozeo/elizabot/eliza"
)

var (
	// active is the engine answering messages. It is replaced as a whole when
	// new rules are loaded, so every reply sees one complete ruleset.
	active atomic.Pointer[eliza.Engine]

	// HTTPClient downloads rule documents for /load_rules and !load_rules.
	HTTPClient = &http.Client{}
	// FetchTimeout bounds a single rules download.
	FetchTimeout = 30 * time.Second
)

// SetEngine makes e the active engine. A nil e unloads the rules.
func SetEngine(e *eliza.Engine) {
	active.Store(e)
}

// CurrentEngine returns the active engine, or nil when no rules are loaded.
func CurrentEngine() *eliza.Engine {
	return active.Load()
}

// loadRules downloads rules from url, stores them and activates them. The
// active engine is left untouched on any error.
func loadRules(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	rules, err := eliza.FetchRules(ctx, HTTPClient, url)
	if err != nil {
		return "", err
	}
	engine, err := eliza.New(rules, eliza.WithLogger(slog.Default()))
	if err != nil {
		return "", err
	}
	revision, err := db.SaveRules(url, rules)
	if err != nil {
		return "", fmt.Errorf("failed to store new rules: %w", err)
	}
	SetEngine(engine)
	slog.Info("loaded rules", slog.String("url", url), slog.String("revision", revision), slog.Int("keywords", len(rules.Keywords)))
	return revision, nil
}

// RestoreEngine activates the newest stored ruleset, falling back to the rules
// file at path when nothing was stored yet. It reports whether an engine was
// activated.
func RestoreEngine(path string) (bool, error) {
	stored, err := db.LatestRules()
	if err == nil {
		engine, err := eliza.New(stored.Rules, eliza.WithLogger(slog.Default()))
		if err != nil {
			return false, fmt.Errorf("stored rules %s: %w", stored.Revision, err)
		}
		SetEngine(engine)
		slog.Info("restored rules", slog.String("revision", stored.Revision), slog.String("source", stored.Source))
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	if path == "" {
		return false, nil
	}
	rules, err := eliza.LoadRules(path)
	if err != nil {
		return false, err
	}
	engine, err := eliza.New(rules, eliza.WithLogger(slog.Default()))
	if err != nil {
		return false, err
	}
	if _, err := db.SaveRules(path, rules); err != nil {
		return false, err
	}
	SetEngine(engine)
	slog.Info("loaded rules from file", slog.String("path", path))
	return true, nil
}
