// Package config loads the bot configuration from flags, environment,
// a .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KeyToken        = "discord.token"
	KeyBotID        = "discord.bot_id"
	KeyOwners       = "discord.owners"
	KeyDatabase     = "database"
	KeyRules        = "rules"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
	KeyFetchTimeout = "fetch_timeout"
)

type Config struct {
	Token string
	// BotID overrides the id of the bot user, normally taken from the gateway.
	BotID snowflake.ID
	// Owners are always whitelisted.
	Owners       []snowflake.ID
	Database     string
	RulesPath    string
	LogLevel     string
	LogFormat    string
	FetchTimeout time.Duration
}

// New returns a viper instance with defaults and environment bindings set up.
// Variables from envFile are loaded into the environment first, if the file exists.
func New(envFile string) (*viper.Viper, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault(KeyDatabase, "elizabot.db")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyFetchTimeout, 30*time.Second)

	v.SetEnvPrefix("ELIZA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// unprefixed names used by older deployments
	if err := v.BindEnv(KeyToken, "ELIZA_DISCORD_TOKEN", "DISCORD_TOKEN"); err != nil {
		return nil, err
	}
	if err := v.BindEnv(KeyBotID, "ELIZA_DISCORD_BOT_ID", "DISCORD_BOT_ID"); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadFile merges a yaml/json/toml config file into v.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	slog.Debug("using config file", slog.String("path", v.ConfigFileUsed()))
	return nil
}

// Load resolves the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Token:        v.GetString(KeyToken),
		Database:     v.GetString(KeyDatabase),
		RulesPath:    v.GetString(KeyRules),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		FetchTimeout: v.GetDuration(KeyFetchTimeout),
	}

	if s := v.GetString(KeyBotID); s != "" {
		id, err := snowflake.Parse(s)
		if err != nil {
			return Config{}, fmt.Errorf("the specified bot id is not a valid snowflake: %w", err)
		}
		cfg.BotID = id
	}

	owners, err := parseIDs(v.GetStringSlice(KeyOwners))
	if err != nil {
		return Config{}, fmt.Errorf("invalid owner id: %w", err)
	}
	cfg.Owners = owners

	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("fetch timeout must be positive, got %s", cfg.FetchTimeout)
	}
	return cfg, nil
}

// parseIDs accepts ids separated by commas or whitespace, in any number of entries.
func parseIDs(entries []string) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	for _, entry := range entries {
		for _, field := range strings.FieldsFunc(entry, func(r rune) bool { return r == ',' || r == ' ' }) {
			id, err := snowflake.Parse(field)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
