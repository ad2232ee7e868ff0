// Package notify fans out change notifications to in-process subscribers
// such as a UI that re-renders after every state change.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
)

// DefaultBuffer is the subscriber channel size used when Subscribe is
// given a non-positive buffer.
const DefaultBuffer = 16

// Message describes one state change.
type Message struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action, id string) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
	}
}

// Subscriber receives messages broadcast on a Hub.
type Subscriber struct {
	send chan Message
}

// C returns the channel messages are delivered on. It is closed by Unsubscribe.
func (s *Subscriber) C() <-chan Message {
	return s.send
}

// Hub maintains the set of subscribers and broadcasts messages to them.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscriber]struct{}
	logger *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[*Subscriber]struct{}),
		logger: logger.With("component", "notify"),
	}
}

// Subscribe registers a new subscriber with the given channel buffer.
func (h *Hub) Subscribe(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	s := &Subscriber{send: make(chan Message, buffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.send)
	}
	h.mu.Unlock()
}

// Broadcast sends msg to all subscribers without blocking.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		select {
		case s.send <- msg:
		default:
			h.logger.Debug("subscriber buffer full, dropping message", "type", msg.Type)
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
