package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/zeozeozeo/elizabot/eliza"
)

var KeywordCommand = discord.SlashCommandCreate{
	Name:        "keyword",
	Description: "Show the decompositions of a keyword in the active ruleset",
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
			Name:         "word",
			Description:  "The keyword",
			Required:     true,
			Autocomplete: true,
		},
		discord.ApplicationCommandOptionBool{
			Name:        "ephemeral",
			Description: "If the response should only be visible to you",
		},
	},
}

// HandleKeyword handles the /keyword command.
func HandleKeyword(event *handler.CommandEvent) error {
	data := event.SlashCommandInteractionData()
	word := data.String("word")

	engine := CurrentEngine()
	if engine == nil {
		return sendInteractionError(event, "no rules defined", true)
	}
	kw, ok := engine.Keyword(word)
	if !ok {
		return sendInteractionError(event, fmt.Sprintf("no keyword %q", word), true)
	}

	return event.CreateMessage(
		discord.NewMessageCreateBuilder().
			SetContent(formatKeyword(kw)).
			SetEphemeral(data.Bool("ephemeral")).
			Build(),
	)
}

// formatKeyword renders a keyword as a markdown list, trimmed to the message size limit.
func formatKeyword(kw eliza.Keyword) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (weight %d)\n", kw.Word, kw.Weight)
	for _, d := range kw.Decompositions {
		fmt.Fprintf(&b, "- `%s`\n", d.Pattern)
		for _, r := range d.Reasmb {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	return ellipsisTrim(strings.TrimRight(b.String(), "\n"), 2000)
}

// keywordChoices ranks the keyword words against what the user typed so far.
func keywordChoices(typed string, words []string) []string {
	var matches fuzzy.Ranks
	if typed != "" {
		matches = fuzzy.RankFindNormalizedFold(typed, words)
		sort.Sort(matches)
	} else {
		// fake it to keep the order
		for i, w := range words {
			matches = append(matches, fuzzy.Rank{Target: w, OriginalIndex: i})
		}
	}

	var choices []string
	for _, match := range matches {
		if len(choices) >= 25 {
			break
		}
		choices = append(choices, match.Target)
	}
	return choices
}

// HandleKeywordAutocomplete suggests keyword words of the active ruleset.
func HandleKeywordAutocomplete(event *handler.AutocompleteEvent) error {
	var words []string
	if engine := CurrentEngine(); engine != nil {
		for _, kw := range engine.Rules().Keywords {
			words = append(words, kw.Word)
		}
	}

	var choices []discord.AutocompleteChoice
	for _, w := range keywordChoices(event.Data.String("word"), words) {
		choices = append(choices, discord.AutocompleteChoiceString{
			Name:  ellipsisTrim(w, 100),
			Value: w,
		})
	}
	return event.AutocompleteResult(choices)
}
