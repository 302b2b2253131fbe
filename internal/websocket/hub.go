package websocket

import (
	"encoding/json"
	"sync"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

// Client is one connected notification stream. A user may hold several
// clients at once (multiple tabs or devices).
type Client struct {
	Hub     *Hub
	Conn    *Conn
	UserID  uint
	IsAdmin bool
	Send    chan []byte
}

// Hub fans notifications out to connected clients.
type Hub struct {
	clients    map[uint][]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *outbound

	mu sync.RWMutex
}

type outbound struct {
	// UserID nil means deliver to every connected admin.
	UserID  *uint
	Message []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *outbound, 1024),
	}
}

// Run processes registration and delivery. Start once as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", logger.Fields{
				"user_id":  client.UserID,
				"is_admin": client.IsAdmin,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if list, ok := h.clients[client.UserID]; ok {
				remaining := make([]*Client, 0, len(list))
				for _, c := range list {
					if c != client {
						remaining = append(remaining, c)
					}
				}
				if len(remaining) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = remaining
				}
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Debug("WebSocket client unregistered", logger.Fields{
				"user_id": client.UserID,
			})

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, list := range h.clients {
				for _, client := range list {
					if !h.shouldDeliver(client, msg) {
						continue
					}
					select {
					case client.Send <- msg.Message:
					default:
						// Slow consumer: drop the connection rather than
						// block the hub.
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", logger.Fields{
							"user_id": client.UserID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) shouldDeliver(client *Client, msg *outbound) bool {
	if msg.UserID == nil {
		return client.IsAdmin
	}
	return client.UserID == *msg.UserID
}

// BroadcastNotification pushes a stored notification to its audience:
// the target user's connections, or every admin for broadcast rows.
// Satisfies the service layer's NotificationBroadcaster.
func (h *Hub) BroadcastNotification(notification *model.Notification) {
	data, err := json.Marshal(map[string]interface{}{
		"type":         "notification",
		"notification": notification,
	})
	if err != nil {
		logger.Error("Failed to marshal notification", err)
		return
	}

	select {
	case h.broadcast <- &outbound{UserID: notification.UserID, Message: data}:
	default:
		// Live push is best-effort; the row is already persisted.
		logger.Warn("Broadcast channel full, notification push dropped", logger.Fields{
			"notification_id": notification.ID,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether the user has at least one open stream.
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
