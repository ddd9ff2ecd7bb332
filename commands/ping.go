package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var PingCommand = discord.SlashCommandCreate{
	Name:        "ping",
	Description: "Check if the bot is alive",
	IntegrationTypes: []discord.ApplicationIntegrationType{
		discord.ApplicationIntegrationTypeGuildInstall,
		discord.ApplicationIntegrationTypeUserInstall,
	},
	Contexts: []discord.InteractionContextType{
		discord.InteractionContextTypeGuild,
		discord.InteractionContextTypeBotDM,
		discord.InteractionContextTypePrivateChannel,
	},
}

var GreetCommand = discord.SlashCommandCreate{
	Name:        "greet",
	Description: "Start a conversation",
	IntegrationTypes: []discord.ApplicationIntegrationType{
		discord.ApplicationIntegrationTypeGuildInstall,
		discord.ApplicationIntegrationTypeUserInstall,
	},
	Contexts: []discord.InteractionContextType{
		discord.InteractionContextTypeGuild,
		discord.InteractionContextTypeBotDM,
		discord.InteractionContextTypePrivateChannel,
	},
}

func HandlePing(event *handler.CommandEvent) error {
	return event.CreateMessage(discord.MessageCreate{Content: "Pong!"})
}

// HandleGreet sends one of the ruleset's greetings.
func HandleGreet(event *handler.CommandEvent) error {
	engine := CurrentEngine()
	if engine == nil {
		return sendInteractionError(event, "no rules defined", true)
	}
	greeting, err := engine.Greeting()
	if err != nil {
		return sendInteractionError(event, err.Error(), true)
	}
	return event.CreateMessage(discord.MessageCreate{Content: greeting})
}
