package commands

import (
	"strings"
	"time"
	"unicode"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
)

const (
	elizaIcon      = "https://i.imgur.com/ckpztZY.png"
	elizaErrorIcon = "https://i.imgur.com/hCF06SC.png"
)

func errorEmbed(msg string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetColor(0xf54242).
		SetTitle("❌ Error").
		SetFooter("eliza", elizaErrorIcon).
		SetTimestamp(time.Now()).
		SetDescription(toTitle(msg)).
		Build()
}

// sendInteractionError sends a formatted error message as a response to a command event.
func sendInteractionError(event *handler.CommandEvent, msg string, ephemeral bool) error {
	return event.CreateMessage(
		discord.NewMessageCreateBuilder().
			SetAllowedMentions(&discord.AllowedMentions{
				RepliedUser: false,
			}).
			SetEphemeral(ephemeral).
			AddEmbeds(errorEmbed(msg)).
			Build(),
	)
}

// updateInteractionError updates a deferred interaction response with a formatted error message.
func updateInteractionError(event *handler.CommandEvent, msg string) error {
	_, err := event.UpdateInteractionResponse(
		discord.NewMessageUpdateBuilder().
			AddEmbeds(errorEmbed(msg)).
			Build(),
	)
	return err
}

// sendPrettyError sends a formatted error message as a reply to a regular message.
func sendPrettyError(client bot.Client, msg string, channelID, messageID snowflake.ID) error {
	_, err := client.Rest().CreateMessage(
		channelID,
		discord.NewMessageCreateBuilder().
			SetMessageReferenceByID(messageID).
			SetAllowedMentions(&discord.AllowedMentions{
				RepliedUser: false,
			}).
			AddEmbeds(errorEmbed(msg)).
			Build(),
	)
	return err
}

// reply answers a regular message without pinging its author.
func reply(client bot.Client, channelID, messageID snowflake.ID, content string) error {
	_, err := client.Rest().CreateMessage(
		channelID,
		discord.NewMessageCreateBuilder().
			SetContent(content).
			SetMessageReferenceByID(messageID).
			SetAllowedMentions(&discord.AllowedMentions{RepliedUser: false}).
			Build(),
	)
	return err
}

// toTitle capitalizes the first letter of a string.
func toTitle(str string) string {
	if len(str) == 0 {
		return str
	}
	runes := []rune(str)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func ellipsisTrim(s string, length int) string {
	r := []rune(s)
	if len(r) > length {
		return string(r[:length-1]) + "…"
	}
	return s
}

// isModerator checks if the user has moderator permissions.
func isModerator(p discord.Permissions) bool {
	return p.Has(discord.PermissionManageRoles) ||
		p.Has(discord.PermissionAdministrator) ||
		p.Has(discord.PermissionModerateMembers)
}

// stripMention removes both mention forms of id from content.
func stripMention(content string, id snowflake.ID) string {
	content = strings.ReplaceAll(content, "<@!"+id.String()+">", "")
	content = strings.ReplaceAll(content, "<@"+id.String()+">", "")
	return strings.TrimSpace(content)
}

// textCommand splits a "!name args" message. ok is false for regular messages.
func textCommand(content string) (name, args string, ok bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "!") {
		return "", "", false
	}
	name, args, _ = strings.Cut(content[1:], " ")
	return strings.ToLower(name), strings.TrimSpace(args), name != ""
}
