package interactions

import (
	"context"
	"log"

	"github.com/angelajfisher/conference-bridge/internal/orchestrator"
	"github.com/bwmarrin/discordgo"
)

func HandleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, o *orchestrator.Orchestrator) {
	log.Printf("%s: /cancel in %s", invoker(i), i.ChannelID)

	if !o.IsSubscribed(receiverID(i.ChannelID)) {
		respond(s, i, &discordgo.InteractionResponseData{
			Content: "Nothing to cancel: this channel isn't watching the conference.",
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		return
	}

	o.Unsubscribe(receiverID(i.ChannelID))
	if err := o.Database.DeleteWatch(context.TODO(), i.ChannelID); err != nil {
		log.Println(err)
	}

	respond(s, i, &discordgo.InteractionResponseData{
		Content: "Canceled! Conference events will no longer be posted here.",
	})
}
