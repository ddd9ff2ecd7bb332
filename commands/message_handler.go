package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/zeozeozeo/elizabot/db"
	"github.com/zeozeozeo/elizabot/eliza"
)

// BotID overrides the bot's own user id. Zero means the gateway's id is used.
var BotID snowflake.ID

func selfID(client bot.Client) snowflake.ID {
	if BotID != 0 {
		return BotID
	}
	return client.ID()
}

// mentionsOnly reports whether the message mentions exactly one user, id.
func mentionsOnly(message discord.Message, id snowflake.ID) bool {
	return len(message.Mentions) == 1 && message.Mentions[0].ID == id
}

func OnMessageCreate(event *events.MessageCreate) {
	if event.Message.Author.Bot {
		return
	}

	id := selfID(event.Client())
	if !mentionsOnly(event.Message, id) {
		return
	}
	if event.GuildID != nil && db.IsChannelInBlacklist(event.ChannelID) {
		return // blacklisted in this channel
	}

	content := stripMention(event.Message.Content, id)
	slog.Debug("mentioned", slog.String("channel_id", event.ChannelID.String()), slog.String("content", content))

	if name, args, ok := textCommand(content); ok {
		switch name {
		case "ping":
			if err := reply(event.Client(), event.ChannelID, event.MessageID, "Pong!"); err != nil {
				slog.Error("failed to send pong", slog.Any("err", err))
			}
			return
		case "load_rules":
			handleLoadRulesMessage(event, args)
			return
		}
	}

	if err := handleElizaMessage(event.Client(), event.ChannelID, event.MessageID, event.Message.Author.ID, content); err != nil {
		slog.Error("handleElizaMessage failed", slog.Any("err", err))
		sendPrettyError(event.Client(), err.Error(), event.ChannelID, event.MessageID)
	}
}

// handleElizaMessage replies to content with the active engine. A channel
// whose conversation ended gets a greeting before the next reply.
func handleElizaMessage(client bot.Client, channelID, messageID, authorID snowflake.ID, content string) error {
	engine := CurrentEngine()
	if engine == nil {
		return reply(client, channelID, messageID, "Error: no rules defined")
	}

	res, err := engine.Interact(content)
	if err != nil {
		return err
	}

	message := recordReply(engine, channelID, authorID, res)
	return reply(client, channelID, messageID, message)
}

// recordReply updates the channel, global and user records for one reply and
// returns the message to send. Storage failures are logged, the reply still goes out.
func recordReply(engine *eliza.Engine, channelID, authorID snowflake.ID, res eliza.Response) string {
	cache := db.GetChannelCache(channelID)
	message := res.Message
	if cache.Ended && !res.IsFarewell {
		if greeting, err := engine.Greeting(); err == nil {
			message = greeting + "\n" + message
		}
	}
	cache.Ended = res.IsFarewell
	cache.Messages++
	cache.UpdateInteractionTime()
	if err := cache.Write(channelID); err != nil {
		slog.Warn("failed to write channel cache", slog.Any("err", err))
	}

	if err := db.UpdateGlobalStats(res.IsFarewell); err != nil {
		slog.Warn("failed to update global stats", slog.Any("err", err))
	}
	if err := db.SetInteractionTime(authorID, time.Now()); err != nil {
		slog.Warn("failed to set interaction time", slog.Any("err", err), slog.String("user_id", authorID.String()))
	}
	return message
}

func handleLoadRulesMessage(event *events.MessageCreate, url string) {
	client := event.Client()
	if !db.IsInWhitelist(event.Message.Author.ID) {
		sendPrettyError(client, "you are not allowed to load rules", event.ChannelID, event.MessageID)
		return
	}
	if url == "" {
		sendPrettyError(client, "usage: !load_rules <url>", event.ChannelID, event.MessageID)
		return
	}

	if err := reply(client, event.ChannelID, event.MessageID, fmt.Sprintf("Loading rules at %s ...", url)); err != nil {
		slog.Error("error sending message", slog.Any("err", err))
	}

	if _, err := loadRules(context.Background(), url); err != nil {
		slog.Error("failed to load rules", slog.Any("err", err), slog.String("url", url))
		sendPrettyError(client, "error loading rules: "+err.Error(), event.ChannelID, event.MessageID)
		return
	}
	if err := reply(client, event.ChannelID, event.MessageID, "OK!"); err != nil {
		slog.Error("error sending message", slog.Any("err", err))
	}
}
