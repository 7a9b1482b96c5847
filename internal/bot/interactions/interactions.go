package interactions

import (
	"log"

	"github.com/angelajfisher/conference-bridge/internal/types"
	"github.com/bwmarrin/discordgo"
)

const (
	WATCH_COMMAND  = "watch"
	CANCEL_COMMAND = "cancel"
	STATUS_COMMAND = "status"
	EVENT_OPT      = "event"
)

func InteractionList() []*discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(types.AllKinds()))
	for _, kind := range types.AllKinds() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  KindTitle(kind),
			Value: kind.ShortName(),
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        WATCH_COMMAND,
			Description: "Post conference events in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        EVENT_OPT,
					Description: "Only post this event (default: the bridge's configured events)",
					Type:        discordgo.ApplicationCommandOptionString,
					Choices:     choices,
				},
			},
		}, {
			Name:        CANCEL_COMMAND,
			Description: "Stop posting conference events in this channel",
		}, {
			Name:        STATUS_COMMAND,
			Description: "Show the current conference and this channel's watch",
		},
	}
}

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

func ParseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) optionMap {
	om := make(optionMap)
	for _, opt := range options {
		om[opt.Name] = opt
	}
	return om
}

// Each watched channel is one broadcast receiver
func receiverID(channelID string) string {
	return "discord:" + channelID
}

func invoker(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.String()
	case i.User != nil:
		return i.User.String()
	}
	return "unknown user"
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Printf("could not respond to interaction: %s", err)
	}
}
