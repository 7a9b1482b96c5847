package orchestrator

import (
	"reflect"
	"testing"

	"github.com/angelajfisher/conference-bridge/internal/conference"
	"github.com/angelajfisher/conference-bridge/internal/db"
	"github.com/angelajfisher/conference-bridge/internal/types"
)

func TestHandleNamedBroadcastsToSubscribers(t *testing.T) {
	o := NewOrchestrator(db.DatabasePool{})
	all := o.Subscribe("all")
	joins := o.Subscribe("joins", types.ParticipantJoined)

	intent, ok := o.HandleNamed("PARTICIPANT_JOINED", map[string]any{"participantId": "p1", "displayName": "Ada"})
	if !ok {
		t.Fatal("expected event to be dispatched")
	}
	if intent.Action != "org.jitsi.meet.PARTICIPANT_JOINED" {
		t.Errorf("expected org.jitsi.meet.PARTICIPANT_JOINED, got %s", intent.Action)
	}

	for name, c := range map[string]<-chan types.Intent{"all": all, "joins": joins} {
		select {
		case got := <-c:
			if !reflect.DeepEqual(got, intent) {
				t.Errorf("%s: expected %+v, got %+v", name, intent, got)
			}
		default:
			t.Errorf("%s: expected an intent", name)
		}
	}

	if _, ok := o.HandleNamed("CONFERENCE_JOINED", map[string]any{"url": "u"}); !ok {
		t.Fatal("expected event to be dispatched")
	}
	if len(joins) != 0 {
		t.Error("expected joins subscriber not to receive CONFERENCE_JOINED")
	}
	if len(all) != 1 {
		t.Errorf("expected all subscriber to receive CONFERENCE_JOINED, has %d", len(all))
	}

	if want := []string{"Ada"}; !reflect.DeepEqual(o.Conference().Participants, want) {
		t.Errorf("expected participants %v, got %v", want, o.Conference().Participants)
	}
}

func TestHandleUnknownEvents(t *testing.T) {
	o := NewOrchestrator(db.DatabasePool{})
	c := o.Subscribe("all")

	if _, ok := o.HandleNamed("BOGUS", map[string]any{}); ok {
		t.Error("expected unknown name not to dispatch")
	}
	if _, ok := o.HandleBroadcast("org.jitsi.meet.UNKNOWN_EVENT", map[string]any{"extraData": map[string]any{}}); ok {
		t.Error("expected unknown action not to dispatch")
	}
	if len(c) != 0 {
		t.Errorf("expected nothing delivered, got %d", len(c))
	}
}

func TestHandleBroadcastWithoutExtras(t *testing.T) {
	o := NewOrchestrator(db.DatabasePool{})
	c := o.Subscribe("mutes", types.AudioMutedChanged)

	intent, ok := o.HandleBroadcast("ORG.JITSI.MEET.AUDIO_MUTED_CHANGED", nil)
	if !ok {
		t.Fatal("expected event to be dispatched")
	}
	if intent.Action != "org.jitsi.meet.AUDIO_MUTED_CHANGED" {
		t.Errorf("expected canonical action, got %s", intent.Action)
	}
	got := <-c
	if payload := got.Extras[types.ExtraDataKey].(map[string]any); payload != nil {
		t.Errorf("expected nil payload, got %v", payload)
	}
}

func TestDefaultKinds(t *testing.T) {
	o := NewOrchestrator(db.DatabasePool{})
	o.SetDefaultKinds([]types.EventKind{types.ConferenceTerminated, types.ConferenceJoined})

	o.Subscribe("r")
	want := []types.EventKind{types.ConferenceJoined, types.ConferenceTerminated}
	if got := o.SubscribedKinds("r"); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	o.SetDefaultKinds(nil)
	if got := o.DefaultKinds(); len(got) != 6 {
		t.Errorf("expected all kinds restored, got %v", got)
	}
}

func TestShutdownClosesSubscriptions(t *testing.T) {
	o := NewOrchestrator(db.DatabasePool{})
	c := o.Subscribe("r")
	o.Shutdown()

	if _, open := <-c; open {
		t.Error("expected subscription to be closed")
	}
	if o.IsSubscribed("r") {
		t.Error("expected receiver to be unsubscribed")
	}
	if got := o.Conference().Status; got != conference.StatusIdle {
		t.Errorf("expected idle, got %s", got)
	}
}
