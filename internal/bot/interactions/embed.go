package interactions

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/angelajfisher/conference-bridge/internal/conference"
	"github.com/angelajfisher/conference-bridge/internal/types"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxFields     = 25 // Discord's per-embed field limit
	maxFieldValue = 1024
)

// KindTitle renders a kind for humans, e.g. "Participant Joined"
func KindTitle(kind types.EventKind) string {
	// Casers keep state, so each call gets its own
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(kind.String()), "_", " "))
}

// EventEmbed renders a broadcast as a Discord embed, one field per payload key
func EventEmbed(intent types.Intent) *discordgo.MessageEmbed {
	kind, _ := types.KindFromAction(intent.Action)
	embed := &discordgo.MessageEmbed{
		Type:      discordgo.EmbedTypeRich,
		Title:     KindTitle(kind),
		Footer:    &discordgo.MessageEmbedFooter{Text: intent.Action},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	payload, _ := intent.Extras[types.ExtraDataKey].(map[string]any)
	if len(payload) == 0 {
		embed.Description = "No event data."
		return embed
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if len(embed.Fields) == maxFields {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   key,
			Value:  fieldValue(payload[key]),
			Inline: true,
		})
	}
	return embed
}

// StatusEmbed renders a conference snapshot
func StatusEmbed(snapshot conference.Snapshot, watched []types.EventKind) *discordgo.MessageEmbed {
	participants := "None"
	if len(snapshot.Participants) > 0 {
		participants = strings.Join(snapshot.Participants, "\n")
	}
	muted := "No"
	if snapshot.AudioMuted {
		muted = "Yes"
	}

	embed := &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       "Conference Status",
		Description: "The conference is **" + string(snapshot.Status) + "**.",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "URL", Value: fieldValue(snapshot.URL)},
			{Name: "Audio Muted", Value: muted, Inline: true},
			{Name: "Participants", Value: fieldValue(participants), Inline: true},
		},
	}
	if snapshot.LastError != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Last Error", Value: fieldValue(snapshot.LastError)})
	}

	watch := "This channel isn't watching the conference. Start with `/watch`!"
	if len(watched) > 0 {
		titles := make([]string, 0, len(watched))
		for _, kind := range watched {
			titles = append(titles, KindTitle(kind))
		}
		watch = strings.Join(titles, ", ")
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Watched Events", Value: watch})

	return embed
}

// Discord rejects empty field values and caps their length
func fieldValue(v any) string {
	var value string
	if v != nil {
		value = fmt.Sprint(v)
	}
	if value == "" {
		return "n/a"
	}
	// the limit counts characters, not bytes
	if utf8.RuneCountInString(value) > maxFieldValue {
		return string([]rune(value)[:maxFieldValue-3]) + "..."
	}
	return value
}
