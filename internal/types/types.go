package types

import "strings"

// EventKind is one of the conference lifecycle events the SDK broadcasts.
// The zero value, KindUnknown, stands for an event that could not be classified.
type EventKind int

const (
	KindUnknown EventKind = iota
	ConferenceJoined
	ConferenceTerminated
	ConferenceWillJoin
	AudioMutedChanged
	ParticipantJoined
	ParticipantLeft
)

// Key under which the event payload travels in broadcast extras
const ExtraDataKey = "extraData"

type kindInfo struct {
	action    string // wire-level broadcast action
	shortName string // name used by the JavaScript event emitter
}

var kindTable = [...]kindInfo{
	KindUnknown:          {},
	ConferenceJoined:     {action: "org.jitsi.meet.CONFERENCE_JOINED", shortName: "CONFERENCE_JOINED"},
	ConferenceTerminated: {action: "org.jitsi.meet.CONFERENCE_TERMINATED", shortName: "CONFERENCE_TERMINATED"},
	ConferenceWillJoin:   {action: "org.jitsi.meet.CONFERENCE_WILL_JOIN", shortName: "CONFERENCE_WILL_JOIN"},
	AudioMutedChanged:    {action: "org.jitsi.meet.AUDIO_MUTED_CHANGED", shortName: "AUDIO_MUTED_CHANGED"},
	ParticipantJoined:    {action: "org.jitsi.meet.PARTICIPANT_JOINED", shortName: "PARTICIPANT_JOINED"},
	ParticipantLeft:      {action: "org.jitsi.meet.PARTICIPANT_LEFT", shortName: "PARTICIPANT_LEFT"},
}

// Action returns the broadcast action of the kind, or "" for KindUnknown
func (k EventKind) Action() string {
	if !k.valid() {
		return ""
	}
	return kindTable[k].action
}

// ShortName returns the emitter-side name of the kind, or "" for KindUnknown
func (k EventKind) ShortName() string {
	if !k.valid() {
		return ""
	}
	return kindTable[k].shortName
}

func (k EventKind) String() string {
	if k == KindUnknown || !k.valid() {
		return "UNKNOWN"
	}
	return kindTable[k].shortName
}

func (k EventKind) valid() bool {
	return k >= 0 && int(k) < len(kindTable)
}

// AllKinds lists every recognized kind in declaration order
func AllKinds() []EventKind {
	all := make([]EventKind, 0, len(kindTable)-1)
	for k := ConferenceJoined; int(k) < len(kindTable); k++ {
		all = append(all, k)
	}
	return all
}

// KindFromAction matches a broadcast action against the known kinds, ignoring case.
func KindFromAction(action string) (EventKind, bool) {
	if action == "" {
		return KindUnknown, false
	}
	for _, k := range AllKinds() {
		if strings.EqualFold(kindTable[k].action, action) {
			return k, true
		}
	}
	return KindUnknown, false
}

// KindFromShortName matches an emitter event name exactly; unlike actions, case matters.
func KindFromShortName(name string) (EventKind, bool) {
	switch name {
	case "CONFERENCE_WILL_JOIN":
		return ConferenceWillJoin, true
	case "CONFERENCE_JOINED":
		return ConferenceJoined, true
	case "CONFERENCE_TERMINATED":
		return ConferenceTerminated, true
	case "AUDIO_MUTED_CHANGED":
		return AudioMutedChanged, true
	case "PARTICIPANT_JOINED":
		return ParticipantJoined, true
	case "PARTICIPANT_LEFT":
		return ParticipantLeft, true
	}
	return KindUnknown, false
}
