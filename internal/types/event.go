package types

import (
	"log"
	"maps"
)

// Intent is a native broadcast: an action plus its extras bundle.
type Intent struct {
	Action string         `json:"action"`
	Extras map[string]any `json:"extras"`
}

// Event pairs a classified kind with its payload. A nil Payload means the
// payload was missing or malformed.
type Event struct {
	Kind    EventKind
	Payload map[string]any
}

// FromNamedData builds an event from a JavaScript emitter name and its data.
// The data map is copied.
func FromNamedData(name string, data map[string]any) Event {
	kind, _ := KindFromShortName(name)
	return Event{
		Kind:    kind,
		Payload: maps.Clone(data),
	}
}

// FromBroadcast builds an event from a broadcast action and its extras.
// Malformed extras are logged and leave the payload nil.
func FromBroadcast(action string, extras map[string]any) Event {
	kind, _ := KindFromAction(action)
	return Event{
		Kind:    kind,
		Payload: payloadFromExtras(action, extras),
	}
}

// ToBroadcast converts the event into an intent. It reports false when the
// event has no known kind and so cannot be broadcast.
func (e Event) ToBroadcast() (Intent, bool) {
	if e.Kind == KindUnknown || e.Kind.Action() == "" {
		return Intent{}, false
	}

	return Intent{
		Action: e.Kind.Action(),
		Extras: map[string]any{ExtraDataKey: e.Payload},
	}, true
}

func payloadFromExtras(action string, extras map[string]any) map[string]any {
	if extras == nil {
		log.Printf("warn: broadcast %q has no extras", action)
		return nil
	}

	raw, exists := extras[ExtraDataKey]
	if !exists || raw == nil {
		log.Printf("warn: broadcast %q has no %s", action, ExtraDataKey)
		return nil
	}

	payload, ok := raw.(map[string]any)
	if !ok {
		log.Printf("warn: broadcast %q has invalid %s of type %T", action, ExtraDataKey, raw)
		return nil
	}
	return maps.Clone(payload)
}
