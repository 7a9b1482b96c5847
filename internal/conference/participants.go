package conference

import (
	"slices"
	"strings"
	"sync"
)

type Participant struct {
	ID      string
	Name    string
	Email   string
	Role    string
	IsLocal bool
	present bool
}

type ParticipantList struct {
	participants map[string]Participant // map[participantID]Participant
	mu           sync.RWMutex
}

func newParticipantList() *ParticipantList {
	return &ParticipantList{
		participants: make(map[string]Participant),
	}
}

func (pl *ParticipantList) Add(p Participant) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	// keep what an earlier join told us if this one is sparser
	if prev, exists := pl.participants[p.ID]; exists && p.Name == "" {
		p.Name = prev.Name
	}
	p.present = true
	pl.participants[p.ID] = p
}

// Marks the participant absent; unknown participants are recorded as absent
func (pl *ParticipantList) Remove(participantID string) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	participant, exists := pl.participants[participantID]
	if !exists {
		participant = Participant{ID: participantID}
	}
	participant.present = false
	pl.participants[participantID] = participant
}

// Names of present participants, sorted
func (pl *ParticipantList) Present() []string {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	names := make([]string, 0, len(pl.participants))
	for _, participant := range pl.participants {
		if participant.present {
			name := participant.Name
			if name == "" {
				name = participant.ID
			}
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (pl *ParticipantList) Stringify() string {
	names := pl.Present()
	if len(names) == 0 {
		return "Unknown"
	}

	builder := new(strings.Builder)
	for _, name := range names {
		builder.WriteString(name + "\n")
	}
	return builder.String()
}

// Clears the list and returns how many participants it held
func (pl *ParticipantList) Empty() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	numParticipants := len(pl.participants)
	clear(pl.participants)
	return numParticipants
}
