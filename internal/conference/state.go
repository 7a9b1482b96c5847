// Package conference follows the lifecycle broadcasts to keep a picture of the
// conference the SDK is currently in.
package conference

import (
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/angelajfisher/conference-bridge/internal/types"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusJoining    Status = "joining"
	StatusJoined     Status = "joined"
	StatusTerminated Status = "terminated"
)

type State struct {
	Participants *ParticipantList
	url          string
	status       Status
	audioMuted   bool
	lastError    string
	mu           sync.RWMutex
}

// Snapshot is a point-in-time copy of the conference state.
type Snapshot struct {
	URL          string   `json:"url"`
	Status       Status   `json:"status"`
	AudioMuted   bool     `json:"audioMuted"`
	Participants []string `json:"participants"`
	LastError    string   `json:"lastError,omitempty"`
}

func NewState() *State {
	return &State{
		Participants: newParticipantList(),
		status:       StatusIdle,
	}
}

// Apply updates the state from a classified event. Events without a kind or
// payload are ignored.
func (s *State) Apply(ev types.Event) {
	if ev.Kind == types.KindUnknown {
		return
	}
	if ev.Payload == nil && ev.Kind != types.ConferenceTerminated {
		log.Printf("warn: ignoring %s without payload", ev.Kind)
		return
	}

	switch ev.Kind {
	case types.ConferenceWillJoin:
		s.setStatus(StatusJoining, stringValue(ev.Payload, "url"))
		s.Participants.Empty()

	case types.ConferenceJoined:
		s.setStatus(StatusJoined, stringValue(ev.Payload, "url"))

	case types.ConferenceTerminated:
		s.mu.Lock()
		s.status = StatusTerminated
		if url := stringValue(ev.Payload, "url"); url != "" {
			s.url = url
		}
		s.lastError = stringValue(ev.Payload, "error")
		s.mu.Unlock()
		s.Participants.Empty()

	case types.AudioMutedChanged:
		muted, ok := boolValue(ev.Payload, "muted")
		if !ok {
			log.Printf("warn: %s without a valid muted flag", ev.Kind)
			return
		}
		s.mu.Lock()
		s.audioMuted = muted
		s.mu.Unlock()

	case types.ParticipantJoined:
		id := stringValue(ev.Payload, "participantId")
		if id == "" {
			log.Printf("warn: %s without participantId", ev.Kind)
			return
		}
		name := stringValue(ev.Payload, "displayName")
		if name == "" {
			name = stringValue(ev.Payload, "name")
		}
		isLocal, _ := boolValue(ev.Payload, "isLocal")
		s.Participants.Add(Participant{
			ID:      id,
			Name:    name,
			Email:   stringValue(ev.Payload, "email"),
			Role:    stringValue(ev.Payload, "role"),
			IsLocal: isLocal,
		})

	case types.ParticipantLeft:
		id := stringValue(ev.Payload, "participantId")
		if id == "" {
			log.Printf("warn: %s without participantId", ev.Kind)
			return
		}
		s.Participants.Remove(id)
	}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		URL:          s.url,
		Status:       s.status,
		AudioMuted:   s.audioMuted,
		Participants: s.Participants.Present(),
		LastError:    s.lastError,
	}
}

func (s *State) setStatus(status Status, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
	if url != "" {
		s.url = url
	}
	if status == StatusJoining {
		s.lastError = ""
	}
}

func stringValue(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// The JS side sends booleans, but some hosts stringify extras
func boolValue(payload map[string]any, key string) (bool, bool) {
	switch v := payload[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(v)
		return b, err == nil
	}
	return false, false
}
