package broadcast

// Not safe for concurrent use on its own; guarded by Manager.mu
type bimap struct {
	receiverActions map[string]map[string]struct{} // map[receiverID]map[action] - the actions a receiver listens for
	actionReceivers map[string]map[string]struct{} // map[action]map[receiverID] - the receivers listening for an action
}

func newBimap() *bimap {
	return &bimap{
		receiverActions: make(map[string]map[string]struct{}),
		actionReceivers: make(map[string]map[string]struct{}),
	}
}

func (b *bimap) Add(receiverID string, action string) {
	if _, exists := b.receiverActions[receiverID]; !exists {
		b.receiverActions[receiverID] = make(map[string]struct{})
	}
	b.receiverActions[receiverID][action] = struct{}{}

	if _, exists := b.actionReceivers[action]; !exists {
		b.actionReceivers[action] = make(map[string]struct{})
	}
	b.actionReceivers[action][receiverID] = struct{}{}
}

// Removes the receiver from every action it listens for
func (b *bimap) RemoveReceiver(receiverID string) {
	for action := range b.receiverActions[receiverID] {
		delete(b.actionReceivers[action], receiverID)
		if len(b.actionReceivers[action]) == 0 {
			delete(b.actionReceivers, action)
		}
	}
	delete(b.receiverActions, receiverID)
}

func (b *bimap) GetReceivers(action string) []string {
	receiverList, exists := b.actionReceivers[action]
	if !exists {
		return []string{}
	}

	allReceivers := make([]string, 0, len(receiverList))
	for receiverID := range receiverList {
		allReceivers = append(allReceivers, receiverID)
	}
	return allReceivers
}

func (b *bimap) GetActions(receiverID string) []string {
	actionList, exists := b.receiverActions[receiverID]
	if !exists {
		return []string{}
	}

	allActions := make([]string, 0, len(actionList))
	for action := range actionList {
		allActions = append(allActions, action)
	}
	return allActions
}

func (b *bimap) Exists(receiverID string) bool {
	_, exists := b.receiverActions[receiverID]
	return exists
}
