// Package realtime routes live scheduling events to websocket sessions.
// Clients subscribe to topics; the engine publishes to topics after commit.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Topic naming. A session is auto-joined to its own user topic on connect;
// providers additionally join the shared providers topic. Appointment topics
// require the session to be a party to the appointment.
const TopicProviders = "role:providers"

func UserTopic(userID string) string {
	return "user:" + userID
}

func AppointmentTopic(appointmentID string) string {
	return "appointment:" + appointmentID
}

// Event is a single wire-level message pushed to subscribed sessions.
type Event struct {
	Type      string    `json:"type"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// ClientMessage is an inbound subscription control frame.
type ClientMessage struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

// Publisher is what the engine-facing services depend on. The Hub satisfies
// it; tests substitute a recorder.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Client is one connected session. Send is drained by the connection's write
// pump; a full buffer drops the frame rather than blocking the hub.
type Client struct {
	ID     string
	UserID string
	Role   string
	Topics []string
	Send   chan []byte
}

// Hub tracks sessions and their topic subscriptions. All methods are safe
// for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	all     map[*Client]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.L()
	}
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a session and joins it to its initial topics.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}
	for _, topic := range client.Topics {
		if h.clients[topic] == nil {
			h.clients[topic] = make(map[*Client]struct{})
		}
		h.clients[topic][client] = struct{}{}
	}
	h.logger.Debug("session registered",
		zap.String("clientId", client.ID), zap.String("userId", client.UserID))
}

// Unregister removes a session from every topic and closes its Send channel.
// Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}

	for _, topic := range client.Topics {
		if subscribers, ok := h.clients[topic]; ok {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.clients, topic)
			}
		}
	}

	delete(h.all, client)
	close(client.Send)
	h.logger.Debug("session unregistered", zap.String("clientId", client.ID))
}

// Subscribe joins a registered session to additional topics. Topics the
// session already holds are skipped, so repeated subscribe frames never
// grow its topic list.
func (h *Hub) Subscribe(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	held := make(map[string]struct{}, len(client.Topics))
	for _, t := range client.Topics {
		held[t] = struct{}{}
	}

	for _, topic := range topics {
		if _, ok := held[topic]; ok {
			continue
		}
		if h.clients[topic] == nil {
			h.clients[topic] = make(map[*Client]struct{})
		}
		h.clients[topic][client] = struct{}{}
		client.Topics = append(client.Topics, topic)
		held[topic] = struct{}{}
	}
}

// Unsubscribe removes topics from a registered session.
func (h *Hub) Unsubscribe(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	removeSet := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		removeSet[t] = struct{}{}
	}

	for _, topic := range topics {
		if subscribers, ok := h.clients[topic]; ok {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.clients, topic)
			}
		}
	}

	remaining := make([]string, 0, len(client.Topics))
	for _, t := range client.Topics {
		if _, rm := removeSet[t]; !rm {
			remaining = append(remaining, t)
		}
	}
	client.Topics = remaining
}

// Broadcast sends an event to every session subscribed to the topic. Slow
// consumers are skipped, never waited on.
func (h *Hub) Broadcast(topic string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event marshal failed", zap.String("type", event.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	subscribers, ok := h.clients[topic]
	if !ok {
		return
	}
	for client := range subscribers {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("dropping event for slow session",
				zap.String("clientId", client.ID), zap.String("topic", topic))
		}
	}
}

// BroadcastAll sends an event to every connected session.
func (h *Hub) BroadcastAll(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event marshal failed", zap.String("type", event.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.all {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// Publish broadcasts the event to its own topic, satisfying Publisher.
func (h *Hub) Publish(_ context.Context, event Event) error {
	if event.Topic == "" {
		return fmt.Errorf("event %q has no topic", event.Type)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	h.Broadcast(event.Topic, event)
	return nil
}

// ClientCount returns the number of connected sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// TopicCount returns the number of sessions subscribed to a topic.
func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
