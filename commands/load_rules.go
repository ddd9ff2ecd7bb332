package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/zeozeozeo/elizabot/db"
)

var LoadRulesCommand = discord.SlashCommandCreate{
	Name:        "load_rules",
	Description: "Replace the active ruleset with a JSON or YAML document (needs whitelist)",
	IntegrationTypes: []discord.ApplicationIntegrationType{
		discord.ApplicationIntegrationTypeGuildInstall,
		discord.ApplicationIntegrationTypeUserInstall,
	},
	Contexts: []discord.InteractionContextType{
		discord.InteractionContextTypeGuild,
		discord.InteractionContextTypeBotDM,
		discord.InteractionContextTypePrivateChannel,
	},
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "url",
			Description: "Where to download the rules from",
			Required:    true,
		},
	},
}

// HandleLoadRules handles the /load_rules command
func HandleLoadRules(event *handler.CommandEvent) error {
	if !db.IsInWhitelist(event.User().ID) {
		return sendInteractionError(event, "you are not in the whitelist, therefore you cannot load rules", true)
	}
	url := event.SlashCommandInteractionData().String("url")

	// downloading may take longer than the interaction deadline
	if err := event.DeferCreateMessage(true); err != nil {
		return err
	}

	revision, err := loadRules(context.Background(), url)
	if err != nil {
		slog.Error("failed to load rules", slog.Any("err", err), slog.String("url", url))
		return updateInteractionError(event, "error loading rules: "+err.Error())
	}

	content := fmt.Sprintf("OK! Loaded rules from %s (revision `%s`)", url, revision)
	_, err = event.UpdateInteractionResponse(discord.MessageUpdate{Content: &content})
	return err
}
