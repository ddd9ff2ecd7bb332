package commands

import (
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/zeozeozeo/elizabot/db"
)

var BlacklistCommand = discord.SlashCommandCreate{
	Name:        "blacklist",
	Description: "For server moderators: stop or resume ELIZA's replies in a channel",
	IntegrationTypes: []discord.ApplicationIntegrationType{
		discord.ApplicationIntegrationTypeGuildInstall,
	},
	Contexts: []discord.InteractionContextType{
		discord.InteractionContextTypeGuild,
	},
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "Where mentions should be ignored. Run again to listen there again",
			Required:    true,
			ChannelTypes: []discord.ChannelType{
				discord.ChannelTypeGuildText,
				discord.ChannelTypeGuildVoice,
				discord.ChannelTypeGuildNews,
				discord.ChannelTypeGuildNewsThread,
				discord.ChannelTypeGuildPublicThread,
				discord.ChannelTypeGuildPrivateThread,
				discord.ChannelTypeGuildForum,
			},
		},
		discord.ApplicationCommandOptionBool{
			Name:        "ephemeral",
			Description: "If the response should only be visible to you",
		},
	},
}

// blacklistMessage describes the new state of a channel.
func blacklistMessage(blacklisted bool) string {
	if blacklisted {
		return "ELIZA will ignore mentions in <#%d>. Conversations there are paused, not forgotten."
	}
	return "ELIZA is listening in <#%d> again."
}

// HandleBlacklist toggles whether the bot answers in a channel.
func HandleBlacklist(event *handler.CommandEvent) error {
	if event.Member() == nil {
		return sendInteractionError(event, "this command can only be used in a server", true)
	}
	if !isModerator(event.Member().Permissions) {
		return sendInteractionError(event, "you must be a moderator to silence ELIZA", true)
	}

	data := event.SlashCommandInteractionData()
	channelID := data.Snowflake("channel")

	blacklisted, err := db.ToggleChannelBlacklist(channelID)
	if err != nil {
		return sendInteractionError(event, "failed to update the channel blacklist", true)
	}
	slog.Info("channel blacklist changed", slog.String("channel_id", channelID.String()), slog.Bool("blacklisted", blacklisted))

	return event.CreateMessage(
		discord.NewMessageCreateBuilder().
			SetContentf(blacklistMessage(blacklisted), channelID).
			SetEphemeral(data.Bool("ephemeral")).
			Build(),
	)
}
