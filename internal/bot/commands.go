package bot

import "github.com/bwmarrin/discordgo"

const (
	commandTransliterate = "transliterate"
	commandHistory       = "history"
	commandHelp          = "help"
	// Message context menu entries are addressed by their display name.
	commandMessage = "Transliterate"
)

var minHistoryLimit = 1.0

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        commandTransliterate,
		Description: "Transliterate Amharic (fidel) text into Latin letters",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "text",
				Description: "Text written in fidel, e.g. ሰላም",
				Required:    true,
				MaxLength:   defaultMaxInputRunes,
			},
		},
	},
	{
		Name:        commandHistory,
		Description: "Show recent transliterations in this channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "limit",
				Description: "How many entries to show",
				MinValue:    &minHistoryLimit,
				MaxValue:    maxHistoryLimit,
			},
		},
	},
	{
		Name:        commandHelp,
		Description: "How fidelbot transliterates",
	},
	{
		Name: commandMessage,
		Type: discordgo.MessageApplicationCommand,
	},
}

const helpText = "**fidelbot** turns Amharic fidel into Latin letters.\n\n" +
	"• `/transliterate text:ሰላም` → `selam`\n" +
	"• Right-click a message → Apps → **Transliterate**\n" +
	"• Send me a direct message and I'll reply with the transliteration\n" +
	"• `/history` lists recent transliterations in this channel\n\n" +
	"Words keep their spacing and punctuation. Grammatical prefixes are split off " +
	"with an apostrophe, so ለሰላም becomes `le'selam`."
