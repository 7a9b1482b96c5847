package interactions

import (
	"github.com/angelajfisher/conference-bridge/internal/orchestrator"
	"github.com/bwmarrin/discordgo"
)

func HandleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, o *orchestrator.Orchestrator) {
	respond(s, i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{
			StatusEmbed(o.Conference(), o.SubscribedKinds(receiverID(i.ChannelID))),
		},
		Flags: discordgo.MessageFlagsEphemeral,
	})
}
