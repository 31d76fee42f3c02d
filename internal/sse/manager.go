package sse

import (
	"encoding/json"
	"sync"
	"time"

	"focusos/internal/logger"
)

const clientBuffer = 16

// Event is the envelope written to every stream.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time int64       `json:"time"`
}

// Manager fans per-user events out to that user's open event streams.
type Manager struct {
	clients map[string]map[chan []byte]struct{}
	mu      sync.RWMutex
	closed  bool
	logger  *logger.Logger
}

func NewManager(logger *logger.Logger) *Manager {
	return &Manager{
		clients: make(map[string]map[chan []byte]struct{}),
		logger:  logger,
	}
}

// Subscribe opens a stream for userID. The returned function releases it and must be
// called once the client goes away. The channel is closed when the stream is released.
func (m *Manager) Subscribe(userID string) (<-chan []byte, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan []byte, clientBuffer)
	if m.closed {
		close(ch)
		return ch, func() {}
	}
	if m.clients[userID] == nil {
		m.clients[userID] = make(map[chan []byte]struct{})
	}
	m.clients[userID][ch] = struct{}{}
	m.logger.Debugf("Added event stream for user %s (%d open)", userID, len(m.clients[userID]))

	var once sync.Once
	return ch, func() {
		once.Do(func() { m.remove(userID, ch) })
	}
}

func (m *Manager) remove(userID string, ch chan []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	userClients, ok := m.clients[userID]
	if !ok {
		return
	}
	if _, ok := userClients[ch]; !ok {
		return
	}
	delete(userClients, ch)
	close(ch)
	if len(userClients) == 0 {
		delete(m.clients, userID)
	}
	m.logger.Debugf("Removed event stream for user %s (%d open)", userID, len(userClients))
}

// Publish sends an event to every stream of userID. Slow streams drop the event
// instead of blocking the publisher.
func (m *Manager) Publish(userID, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Time: time.Now().Unix()})
	if err != nil {
		m.logger.Errorf("Failed to encode %s event: %v", eventType, err)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for ch := range m.clients[userID] {
		select {
		case ch <- payload:
		default:
			m.logger.Warnf("Dropped %s event for user %s: stream is full", eventType, userID)
		}
	}
}

// HasSubscribers reports whether userID has at least one open stream.
func (m *Manager) HasSubscribers(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID]) > 0
}

// Close ends every open stream.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for userID, userClients := range m.clients {
		for ch := range userClients {
			close(ch)
		}
		delete(m.clients, userID)
	}
}
