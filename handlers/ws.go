package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nexusschedule/services/realtime"
	"nexusschedule/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced at the gateway.
	},
}

// WSHandler authenticates and upgrades a live session. The session is
// auto-joined to its own user topic; providers also join the shared
// providers topic. Further subscriptions arrive as control frames and are
// authorized per topic.
func (hb *HandlerBundle) WSHandler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "token query parameter is required")
		return
	}
	userID, role, err := utils.ExtractIdentityFromToken(token)
	if err != nil || userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		getLogger(c).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	topics := []string{realtime.UserTopic(userID)}
	if role == "provider" {
		topics = append(topics, realtime.TopicProviders)
	}

	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Role:   role,
		Topics: topics,
		Send:   make(chan []byte, 256),
	}
	hb.Hub.Register(client)

	go hb.writePump(client, conn)
	go hb.readPump(client, conn)
}

func (hb *HandlerBundle) readPump(client *realtime.Client, conn *websocket.Conn) {
	defer func() {
		hb.Hub.Unregister(client)
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg realtime.ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue // Ignore malformed frames.
		}

		switch msg.Action {
		case "subscribe":
			allowed := hb.authorizedTopics(client, msg.Topics)
			if len(allowed) > 0 {
				hb.Hub.Subscribe(client, allowed)
			}
		case "unsubscribe":
			hb.Hub.Unsubscribe(client, msg.Topics)
		}
	}
}

func (hb *HandlerBundle) writePump(client *realtime.Client, conn *websocket.Conn) {
	defer conn.Close()
	for message := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}

// authorizedTopics filters requested topics down to what the session may
// join: its own user topic, the providers topic for providers, and
// appointment topics where the session's user is a party.
func (hb *HandlerBundle) authorizedTopics(client *realtime.Client, topics []string) []string {
	allowed := make([]string, 0, len(topics))
	for _, topic := range topics {
		switch {
		case topic == realtime.UserTopic(client.UserID):
			allowed = append(allowed, topic)
		case topic == realtime.TopicProviders && client.Role == "provider":
			allowed = append(allowed, topic)
		case hb.appointmentParty(client, topic):
			allowed = append(allowed, topic)
		}
	}
	return allowed
}

func (hb *HandlerBundle) appointmentParty(client *realtime.Client, topic string) bool {
	const prefix = "appointment:"
	if len(topic) <= len(prefix) || topic[:len(prefix)] != prefix {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	appt, err := hb.Appointments.GetByID(ctx, topic[len(prefix):])
	if err != nil {
		return false
	}
	return appt.ClientID == client.UserID || appt.ProviderID == client.UserID
}
