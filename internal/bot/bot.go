package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/angelajfisher/conference-bridge/internal/bot/interactions"
	"github.com/angelajfisher/conference-bridge/internal/orchestrator"
	"github.com/bwmarrin/discordgo"
)

type Config struct {
	BotToken     string
	AppID        string
	Orchestrator *orchestrator.Orchestrator
	session      *discordgo.Session
}

// Enabled reports whether the Discord notifier has credentials to run with
func (bc *Config) Enabled() bool {
	return bc.BotToken != "" && bc.AppID != ""
}

func Run(bc *Config) error {
	if !bc.Enabled() {
		log.Println("Discord notifier disabled: BOT_TOKEN and/or APP_ID not set")
		return nil
	}

	var err error
	bc.session, err = discordgo.New("Bot " + bc.BotToken)
	if err != nil {
		return fmt.Errorf("invalid bot parameters: %w", err)
	}

	bc.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}

		data := i.ApplicationCommandData()
		switch data.Name {
		case interactions.WATCH_COMMAND:
			interactions.HandleWatch(s, i, bc.Orchestrator, interactions.ParseOptions(data.Options))
		case interactions.CANCEL_COMMAND:
			interactions.HandleCancel(s, i, bc.Orchestrator)
		case interactions.STATUS_COMMAND:
			interactions.HandleStatus(s, i, bc.Orchestrator)
		}
	})

	bc.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Println("Logged in as", r.User.String())
	})

	_, err = bc.session.ApplicationCommandBulkOverwrite(bc.AppID, "", interactions.InteractionList())
	if err != nil {
		return fmt.Errorf("could not register bot commands: %w", err)
	}

	err = bc.session.Open()
	if err != nil {
		return fmt.Errorf("could not open bot session: %w", err)
	}

	if err = bc.session.UpdateCustomStatus("Relaying conference events. Follow along with /watch"); err != nil {
		log.Printf("could not set custom status: %s", err)
	}

	//
	// Restart previously ongoing watches from last run

	loadedWatches, err := bc.Orchestrator.Database.GetAllWatches(context.TODO())
	if err != nil {
		log.Println(err)
	}

	for _, watch := range loadedWatches {
		interactions.StartWatch(bc.session, bc.Orchestrator, watch)
		notifyOfRestart(bc.session, watch.ChannelID, watch.Kinds)
	}
	log.Println("Loaded", len(loadedWatches), "watches from database")

	return nil
}

func Stop(bc *Config) error {
	if bc.session == nil {
		return nil
	}

	fmt.Print("Bot shutting down...")

	// Closing the subscriptions ends every channel's forwarder
	bc.Orchestrator.Shutdown()

	// Give forwarders time to post what they already received
	time.Sleep(time.Second)

	err := bc.session.Close()
	if err != nil {
		return fmt.Errorf("could not close session gracefully: %w", err)
	}

	fmt.Print("Done!\n")
	return nil
}

// Sends a message to the given channel notifying of the program's (& its watch's) restart
func notifyOfRestart(s *discordgo.Session, channelID string, kinds []string) {
	message := new(strings.Builder)
	message.WriteString("Conference state from before the restart has been lost, but new events will come through as usual.\n\n")
	if len(kinds) == 0 {
		message.WriteString("This channel's watch has been automatically resumed.")
	} else {
		message.WriteString("This channel's watch on `" + strings.Join(kinds, "`, `") + "` has been automatically resumed.")
	}

	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Conference Bridge Restarted!",
			Description: message.String(),
		}},
		Flags: discordgo.MessageFlagsSuppressNotifications,
	})
	if err != nil {
		log.Printf("could not send restart message to channel ID %s: %s", channelID, err)
	}
}
