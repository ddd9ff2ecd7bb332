package commands

import (
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var AllCommands = []discord.ApplicationCommandCreate{
	PingCommand,
	GreetCommand,
	LoadRulesCommand,
	KeywordCommand,
	StatsCommand,
	WhitelistCommand,
	BlacklistCommand,
}

// RegisterHandlers registers all command and autocomplete handlers with the router.
func RegisterHandlers(r handler.Router) error {
	// Assert router type to *handler.Mux to access specific methods like NotFound
	mux, ok := r.(*handler.Mux)
	if !ok {
		return fmt.Errorf("RegisterHandlers requires a *handler.Mux, but received %T", r)
	}

	mux.Command("/ping", HandlePing)
	mux.Command("/greet", HandleGreet)
	mux.Command("/load_rules", HandleLoadRules)
	mux.Command("/keyword", HandleKeyword)
	mux.Autocomplete("/keyword", HandleKeywordAutocomplete)
	mux.Command("/stats", HandleStats)
	mux.Command("/whitelist", HandleWhitelist)
	mux.Command("/blacklist", HandleBlacklist)

	mux.NotFound(HandleNotFound)

	slog.Info("command handlers registered")
	return nil
}
