package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(userID string, topics ...string) *Client {
	return &Client{
		ID:     "client-" + userID,
		UserID: userID,
		Topics: topics,
		Send:   make(chan []byte, 8),
	}
}

func drain(t *testing.T, c *Client) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case raw := <-c.Send:
			var e Event
			if err := json.Unmarshal(raw, &e); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestRegisterAndBroadcast(t *testing.T) {
	hub := NewHub(zap.NewNop())
	alice := newTestClient("alice", UserTopic("alice"))
	bob := newTestClient("bob", UserTopic("bob"))
	hub.Register(alice)
	hub.Register(bob)

	hub.Broadcast(UserTopic("alice"), Event{Type: "test", Topic: UserTopic("alice")})

	if got := drain(t, alice); len(got) != 1 || got[0].Type != "test" {
		t.Errorf("alice events = %v", got)
	}
	if got := drain(t, bob); len(got) != 0 {
		t.Errorf("bob received %d events for alice's topic", len(got))
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient("alice", UserTopic("alice"))
	hub.Register(c)

	topic := AppointmentTopic("appt-1")
	hub.Subscribe(c, []string{topic})
	if hub.TopicCount(topic) != 1 {
		t.Fatalf("TopicCount = %d, want 1", hub.TopicCount(topic))
	}

	hub.Broadcast(topic, Event{Type: "update", Topic: topic})
	if got := drain(t, c); len(got) != 1 {
		t.Fatalf("events after subscribe = %d, want 1", len(got))
	}

	hub.Unsubscribe(c, []string{topic})
	hub.Broadcast(topic, Event{Type: "update", Topic: topic})
	if got := drain(t, c); len(got) != 0 {
		t.Fatalf("events after unsubscribe = %d, want 0", len(got))
	}
	for _, remaining := range c.Topics {
		if remaining == topic {
			t.Error("topic still on client after unsubscribe")
		}
	}
}

func TestSubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient("alice", UserTopic("alice"))
	hub.Register(c)

	topic := AppointmentTopic("appt-1")
	hub.Subscribe(c, []string{topic})
	hub.Subscribe(c, []string{topic, UserTopic("alice")})

	if len(c.Topics) != 2 {
		t.Fatalf("client topics = %v, want no duplicates", c.Topics)
	}

	hub.Broadcast(topic, Event{Type: "update", Topic: topic})
	if got := drain(t, c); len(got) != 1 {
		t.Fatalf("events = %d, want 1 per broadcast", len(got))
	}

	// A single unsubscribe fully detaches the topic.
	hub.Unsubscribe(c, []string{topic})
	hub.Broadcast(topic, Event{Type: "update", Topic: topic})
	if got := drain(t, c); len(got) != 0 {
		t.Fatalf("events after unsubscribe = %d, want 0", len(got))
	}
}

func TestUnregisterClosesSendAndDropsSubscriptions(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient("alice", UserTopic("alice"), TopicProviders)
	hub.Register(c)

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", hub.ClientCount())
	}
	if hub.TopicCount(TopicProviders) != 0 {
		t.Errorf("TopicCount(providers) = %d, want 0", hub.TopicCount(TopicProviders))
	}
	if _, open := <-c.Send; open {
		t.Error("Send channel still open after unregister")
	}

	// A second unregister is a no-op.
	hub.Unregister(c)
}

func TestBroadcastSkipsSlowConsumer(t *testing.T) {
	hub := NewHub(zap.NewNop())
	slow := &Client{ID: "slow", UserID: "slow", Topics: []string{TopicProviders}, Send: make(chan []byte, 1)}
	hub.Register(slow)

	hub.Broadcast(TopicProviders, Event{Type: "first", Topic: TopicProviders})
	// Buffer is full now; this one is dropped instead of blocking.
	hub.Broadcast(TopicProviders, Event{Type: "second", Topic: TopicProviders})

	if len(slow.Send) != 1 {
		t.Fatalf("buffered = %d, want 1", len(slow.Send))
	}
}

func TestPublishRequiresTopic(t *testing.T) {
	hub := NewHub(zap.NewNop())
	if err := hub.Publish(context.Background(), Event{Type: "orphan"}); err == nil {
		t.Fatal("expected error for event without topic")
	}
}

func TestBroadcastAllReachesEveryClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := newTestClient("a", UserTopic("a"))
	b := newTestClient("b", UserTopic("b"))
	hub.Register(a)
	hub.Register(b)

	hub.BroadcastAll(Event{Type: "announcement"})

	if len(drain(t, a)) != 1 || len(drain(t, b)) != 1 {
		t.Error("announcement did not reach every client")
	}
}
