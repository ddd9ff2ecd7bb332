package commands

import (
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/zeozeozeo/elizabot/db"
)

// WhitelistCommand is the definition for the /whitelist command
var WhitelistCommand = discord.SlashCommandCreate{
	Name:        "whitelist",
	Description: "Allow or disallow a user to load rules",
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
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to add or remove from the whitelist",
			Required:    true,
		},
		discord.ApplicationCommandOptionBool{
			Name:        "remove",
			Description: "If the user should be removed from the whitelist",
		},
	},
}

// HandleWhitelist handles the /whitelist command logic
func HandleWhitelist(event *handler.CommandEvent) error {
	if !db.IsInWhitelist(event.User().ID) {
		return sendInteractionError(event, "you are not in the whitelist, therefore you cannot whitelist other users", true)
	}
	data := event.SlashCommandInteractionData()
	user := data.Snowflake("user")

	if data.Bool("remove") {
		slog.Debug("removing user from whitelist", slog.String("user", user.String()))
		if err := db.RemoveFromWhitelist(user); err != nil {
			return sendInteractionError(event, "failed to remove user from whitelist", true)
		}
		return event.CreateMessage(discord.MessageCreate{Content: "Removed user from whitelist", Flags: discord.MessageFlagEphemeral})
	}

	slog.Debug("adding user to whitelist", slog.String("user", user.String()))
	if err := db.AddToWhitelist(user); err != nil {
		return sendInteractionError(event, "failed to add user to whitelist", true)
	}
	return event.CreateMessage(discord.MessageCreate{Content: "Added user to whitelist", Flags: discord.MessageFlagEphemeral})
}
