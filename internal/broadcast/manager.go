// Package broadcast delivers intents to the receivers registered for their action,
// the way the platform's local broadcast manager does on device.
package broadcast

import (
	"log"
	"slices"
	"strings"
	"sync"

	"github.com/angelajfisher/conference-bridge/internal/types"
)

const DefaultBufferSize = 16

type Manager struct {
	registrations *bimap
	receivers     map[string]chan types.Intent // map[receiverID]
	bufferSize    int
	mu            sync.RWMutex
}

func NewManager(bufferSize int) *Manager {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Manager{
		registrations: newBimap(),
		receivers:     make(map[string]chan types.Intent),
		bufferSize:    bufferSize,
	}
}

// Register subscribes the receiver to the given actions and returns its channel.
// Registering an existing receiver again adds to its actions and returns the same channel.
func (m *Manager) Register(receiverID string, actions ...string) <-chan types.Intent {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, exists := m.receivers[receiverID]
	if !exists {
		c = make(chan types.Intent, m.bufferSize)
		m.receivers[receiverID] = c
	}

	for _, action := range actions {
		if action == "" {
			continue
		}
		m.registrations.Add(receiverID, normalize(action))
	}

	return c
}

// Unregister removes the receiver from all actions and closes its channel
func (m *Manager) Unregister(receiverID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unregister(receiverID)
}

func (m *Manager) unregister(receiverID string) {
	c, exists := m.receivers[receiverID]
	if !exists {
		return
	}

	m.registrations.RemoveReceiver(receiverID)
	delete(m.receivers, receiverID)
	close(c)
}

// Send delivers the intent to every receiver registered for its action and
// returns how many received it. Receivers with a full buffer are skipped.
func (m *Manager) Send(intent types.Intent) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	delivered := 0
	for _, receiverID := range m.registrations.GetReceivers(normalize(intent.Action)) {
		select {
		case m.receivers[receiverID] <- intent:
			delivered++
		default:
			log.Printf("warn: receiver %s is full, dropping %s", receiverID, intent.Action)
		}
	}
	return delivered
}

// Actions lists the actions the receiver is registered for, sorted
func (m *Manager) Actions(receiverID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	actions := m.registrations.GetActions(receiverID)
	slices.Sort(actions)
	return actions
}

// Receivers lists the receivers registered for the action, sorted
func (m *Manager) Receivers(action string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	receivers := m.registrations.GetReceivers(normalize(action))
	slices.Sort(receivers)
	return receivers
}

func (m *Manager) IsRegistered(receiverID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.receivers[receiverID]
	return exists
}

// Close unregisters every receiver
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for receiverID := range m.receivers {
		m.unregister(receiverID)
	}
}

// Actions compare case-insensitively, as in types.KindFromAction
func normalize(action string) string {
	return strings.ToLower(action)
}
