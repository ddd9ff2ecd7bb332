package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/dustin/go-humanize"
	"github.com/zeozeozeo/elizabot/db"
)

// StartTime records when the bot started.
var StartTime = time.Now()

var StatsCommand = discord.SlashCommandCreate{
	Name:        "stats",
	Description: "Bot and per-chat usage stats",
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
		discord.ApplicationCommandOptionBool{
			Name:        "ephemeral",
			Description: "If the response should only be visible to you (default: true)",
			Required:    false,
		},
	},
}

// HandleStats handles the /stats command.
func HandleStats(event *handler.CommandEvent) error {
	data := event.SlashCommandInteractionData()
	ephemeral, ok := data.OptBool("ephemeral")
	if !ok {
		// ephemeral is true by default for this command
		ephemeral = true
	}

	stats, err := db.GetGlobalStats()
	if err != nil {
		slog.Error("failed to get global stats", slog.Any("err", err))
		return sendInteractionError(event, err.Error(), true)
	}
	users, err := db.CountUsers()
	if err != nil {
		slog.Error("failed to count users", slog.Any("err", err))
	}
	revisions, err := db.CountRulesRevisions()
	if err != nil {
		slog.Error("failed to count rules revisions", slog.Any("err", err))
	}
	cache := db.GetChannelCache(event.Channel().ID())

	upSince := fmt.Sprintf("since <t:%d:R>", StartTime.Unix())
	lastProcessed := relativeTime(stats.LastMessageTime)
	lastYou := userLastMessage(event.User().ID)
	keywords := "no rules loaded"
	if engine := CurrentEngine(); engine != nil {
		keywords = humanize.Comma(int64(len(engine.Rules().Keywords)))
	}

	return event.CreateMessage(
		discord.NewMessageCreateBuilder().
			AddEmbeds(
				discord.NewEmbedBuilder().
					SetTitle("Stats").
					SetColor(0x0085ff).
					SetDescription("Per-channel and global bot stats").
					SetFooter("eliza", elizaIcon).
					SetTimestamp(time.Now()).
					AddField("Replies (channel)", humanize.Comma(int64(cache.Messages)), true).
					AddField("Replies (global)", humanize.Comma(int64(stats.MessageCount)), true).
					AddField("Farewells (global)", humanize.Comma(int64(stats.FarewellCount)), true).
					AddField("Users", humanize.Comma(int64(users)), true).
					AddField("Keywords", keywords, true).
					AddField("Rules revisions", humanize.Comma(int64(revisions)), true).
					AddField("Bot uptime", upSince, true).
					AddField("Last message processed", lastProcessed, true).
					AddField("Your last message", lastYou, true).
					Build(),
			).
			SetEphemeral(ephemeral).
			Build(),
	)
}

// relativeTime renders t as a Discord relative timestamp, or "never".
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// userLastMessage is when the user last got a reply from the bot.
func userLastMessage(id snowflake.ID) string {
	return relativeTime(db.GetInteractionTime(id))
}
