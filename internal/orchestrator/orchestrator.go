package orchestrator

import (
	"context"
	"log"
	"slices"
	"sync"

	"github.com/angelajfisher/conference-bridge/internal/broadcast"
	"github.com/angelajfisher/conference-bridge/internal/conference"
	"github.com/angelajfisher/conference-bridge/internal/db"
	"github.com/angelajfisher/conference-bridge/internal/types"
)

type Orchestrator struct {
	Database     db.DatabasePool
	broadcasts   *broadcast.Manager
	conference   *conference.State
	defaultKinds []types.EventKind // what a subscription without explicit kinds receives
	mu           sync.RWMutex
}

func NewOrchestrator(database db.DatabasePool) *Orchestrator {
	return &Orchestrator{
		Database:     database,
		broadcasts:   broadcast.NewManager(broadcast.DefaultBufferSize),
		conference:   conference.NewState(),
		defaultKinds: types.AllKinds(),
	}
}

// HandleNamed takes an event from the JavaScript emitter and broadcasts it.
// It reports false when the name is not a known event.
func (o *Orchestrator) HandleNamed(name string, data map[string]any) (types.Intent, bool) {
	return o.dispatch(types.FromNamedData(name, data), db.SourceEmitter)
}

// HandleBroadcast takes an event from a native broadcast and re-broadcasts it.
// It reports false when the action is not a known event.
func (o *Orchestrator) HandleBroadcast(action string, extras map[string]any) (types.Intent, bool) {
	return o.dispatch(types.FromBroadcast(action, extras), db.SourceBroadcast)
}

func (o *Orchestrator) dispatch(ev types.Event, source string) (types.Intent, bool) {
	intent, ok := ev.ToBroadcast()
	if !ok {
		log.Printf("warn: ignoring unrecognized %s event", source)
		return types.Intent{}, false
	}

	o.conference.Apply(ev)

	_, err := o.Database.SaveEvent(context.TODO(), db.EventRecord{
		Source:    source,
		Action:    intent.Action,
		ShortName: ev.Kind.ShortName(),
		Payload:   ev.Payload,
	})
	if err != nil {
		log.Println(err)
	}

	delivered := o.broadcasts.Send(intent)
	log.Printf("%s from %s delivered to %d receiver(s)", ev.Kind, source, delivered)

	return intent, true
}

// Subscribe registers a receiver for the given kinds, or for the default kinds if none are given
func (o *Orchestrator) Subscribe(receiverID string, kinds ...types.EventKind) <-chan types.Intent {
	if len(kinds) == 0 {
		kinds = o.DefaultKinds()
	}

	actions := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		if action := kind.Action(); action != "" {
			actions = append(actions, action)
		}
	}
	return o.broadcasts.Register(receiverID, actions...)
}

func (o *Orchestrator) Unsubscribe(receiverID string) {
	o.broadcasts.Unregister(receiverID)
}

func (o *Orchestrator) IsSubscribed(receiverID string) bool {
	return o.broadcasts.IsRegistered(receiverID)
}

// Kinds the receiver is subscribed to, in declaration order
func (o *Orchestrator) SubscribedKinds(receiverID string) []types.EventKind {
	kinds := []types.EventKind{}
	for _, action := range o.broadcasts.Actions(receiverID) {
		if kind, ok := types.KindFromAction(action); ok {
			kinds = append(kinds, kind)
		}
	}
	slices.Sort(kinds)
	return kinds
}

func (o *Orchestrator) DefaultKinds() []types.EventKind {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return slices.Clone(o.defaultKinds)
}

// SetDefaultKinds changes what future subscriptions without explicit kinds receive.
// An empty list restores all kinds.
func (o *Orchestrator) SetDefaultKinds(kinds []types.EventKind) {
	if len(kinds) == 0 {
		kinds = types.AllKinds()
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.defaultKinds = slices.Clone(kinds)
}

func (o *Orchestrator) Conference() conference.Snapshot {
	return o.conference.Snapshot()
}

func (o *Orchestrator) RecentEvents(limit int) ([]db.EventRecord, error) {
	return o.Database.RecentEvents(context.TODO(), limit)
}

// Closes every subscription so receivers can stop
func (o *Orchestrator) Shutdown() {
	o.broadcasts.Close()
}
