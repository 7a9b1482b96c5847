package interactions

import (
	"context"
	"log"
	"strings"

	"github.com/angelajfisher/conference-bridge/internal/db"
	"github.com/angelajfisher/conference-bridge/internal/orchestrator"
	"github.com/angelajfisher/conference-bridge/internal/types"
	"github.com/bwmarrin/discordgo"
)

// Subset of *discordgo.Session used to post events
type messageSender interface {
	ChannelMessageSendComplex(
		channelID string,
		data *discordgo.MessageSend,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

func HandleWatch(s *discordgo.Session, i *discordgo.InteractionCreate, o *orchestrator.Orchestrator, opts optionMap) {
	var kinds []types.EventKind
	if v, ok := opts[EVENT_OPT]; ok {
		kind, recognized := types.KindFromShortName(v.StringValue())
		if !recognized {
			respond(s, i, &discordgo.InteractionResponseData{
				Content: "Unknown event `" + v.StringValue() + "`.",
				Flags:   discordgo.MessageFlagsEphemeral,
			})
			return
		}
		kinds = append(kinds, kind)
	}
	log.Printf("%s: /watch %v in %s", invoker(i), kinds, i.ChannelID)

	// rewatching replaces the previous selection
	replaced := o.IsSubscribed(receiverID(i.ChannelID))
	if replaced {
		o.Unsubscribe(receiverID(i.ChannelID))
	}

	watch := db.WatchData{
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
		Kinds:     shortNames(kinds),
	}
	if err := o.Database.SaveWatch(context.TODO(), watch); err != nil {
		log.Println(err)
	}
	watched := StartWatch(s, o, watch)

	titles := make([]string, 0, len(watched))
	for _, kind := range watched {
		titles = append(titles, KindTitle(kind))
	}
	content := "Now posting conference events in this channel: " + strings.Join(titles, ", ") +
		"\nStop at any time with `/cancel`"
	if replaced {
		content = "Updated this channel's watch! " + content
	}

	respond(s, i, &discordgo.InteractionResponseData{Content: content})
}

// StartWatch subscribes the channel and posts its broadcasts until the subscription closes.
// It returns the kinds the channel now receives.
func StartWatch(s messageSender, o *orchestrator.Orchestrator, watch db.WatchData) []types.EventKind {
	var kinds []types.EventKind
	for _, name := range watch.Kinds {
		if kind, ok := types.KindFromShortName(name); ok {
			kinds = append(kinds, kind)
		}
	}

	intents := o.Subscribe(receiverID(watch.ChannelID), kinds...)
	go Forward(s, watch.ChannelID, intents)

	return o.SubscribedKinds(receiverID(watch.ChannelID))
}

// Forward posts every intent to the channel and returns once intents is closed
func Forward(s messageSender, channelID string, intents <-chan types.Intent) {
	for intent := range intents {
		_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{EventEmbed(intent)},
			Flags:  discordgo.MessageFlagsSuppressNotifications,
		})
		if err != nil {
			log.Printf("could not post %s to channel ID %s: %s", intent.Action, channelID, err)
		}
	}
}

func shortNames(kinds []types.EventKind) []string {
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, kind.ShortName())
	}
	return names
}
