package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const notFoundMessage = "I don't know that command. Mention me to talk, or try `/greet` and `/keyword`."

// HandleNotFound answers interactions for commands this build does not know,
// usually left over from an older command registration.
func HandleNotFound(event *handler.InteractionEvent) error {
	return event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(notFoundMessage).
		SetEphemeral(true).
		Build(),
	)
}
