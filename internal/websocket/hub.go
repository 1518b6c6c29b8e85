// Package websocket pushes UI-refresh signals to connected clients: the
// conversation list and open message threads re-query when a broadcast for a
// conversation they watch arrives.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSubscribe           = MessageType("subscribe")
	MessageTypeUnsubscribe         = MessageType("unsubscribe")
	MessageTypeConversationUpdated = MessageType("conversation_updated")
	MessageTypeMessageAdded        = MessageType("message_added")
	MessageTypeError               = MessageType("error")
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type           MessageType `json:"type"`
	ConversationID uint        `json:"conversation_id,omitempty"`
	Payload        interface{} `json:"payload,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// ConversationUpdatedPayload announces that a conversation's preview changed.
// NotificationOnly marks updates that should not reorder the visible list.
type ConversationUpdatedPayload struct {
	Snippet          string `json:"snippet"`
	NotificationOnly bool   `json:"notification_only"`
}

// Hub maintains the set of active clients and broadcasts refresh signals.
// Subscription id 0 means "all conversations" and is what the conversation
// list view subscribes with.
type Hub struct {
	clients       map[*Client]bool
	subscriptions map[uint]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *subscriptionRequest
	unsubscribe chan *subscriptionRequest
	broadcast   chan *broadcastMessage

	mu     sync.RWMutex
	logger *slog.Logger
}

type subscriptionRequest struct {
	client         *Client
	conversationID uint
}

type broadcastMessage struct {
	conversationID uint
	message        []byte
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[uint]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan *subscriptionRequest),
		unsubscribe:   make(chan *subscriptionRequest),
		broadcast:     make(chan *broadcastMessage, 256),
		logger:        logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client registered")
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				for conversationID, subscribers := range h.subscriptions {
					delete(subscribers, client)
					if len(subscribers) == 0 {
						delete(h.subscriptions, conversationID)
					}
				}
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client unregistered")
			}

		case req := <-h.subscribe:
			h.mu.Lock()
			if h.subscriptions[req.conversationID] == nil {
				h.subscriptions[req.conversationID] = make(map[*Client]bool)
			}
			h.subscriptions[req.conversationID][req.client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client subscribed", slog.Uint64("conversation_id", uint64(req.conversationID)))
			}

		case req := <-h.unsubscribe:
			h.mu.Lock()
			if subscribers, ok := h.subscriptions[req.conversationID]; ok {
				delete(subscribers, req.client)
				if len(subscribers) == 0 {
					delete(h.subscriptions, req.conversationID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			h.deliver(h.subscriptions[msg.conversationID], msg.message)
			// Wildcard subscribers (the conversation list) see everything.
			if msg.conversationID != 0 {
				h.deliver(h.subscriptions[0], msg.message)
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) deliver(subscribers map[*Client]bool, message []byte) {
	for client := range subscribers {
		select {
		case client.send <- message:
		default:
			// Client buffer full, skip
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe subscribes a client to a conversation (0 = all conversations)
func (h *Hub) Subscribe(client *Client, conversationID uint) {
	h.subscribe <- &subscriptionRequest{client: client, conversationID: conversationID}
}

// Unsubscribe unsubscribes a client from a conversation
func (h *Hub) Unsubscribe(client *Client, conversationID uint) {
	h.unsubscribe <- &subscriptionRequest{client: client, conversationID: conversationID}
}

// BroadcastConversationUpdated signals that a conversation's preview changed.
// This is the conversation-list refresh: fire-and-forget, no acknowledgment.
func (h *Hub) BroadcastConversationUpdated(conversationID uint, snippet string, notificationOnly bool) {
	h.send(conversationID, WSMessage{
		Type:           MessageTypeConversationUpdated,
		ConversationID: conversationID,
		Payload: ConversationUpdatedPayload{
			Snippet:          snippet,
			NotificationOnly: notificationOnly,
		},
	})
}

// BroadcastMessageAdded signals that a conversation gained a message, so an
// open thread view should re-query.
func (h *Hub) BroadcastMessageAdded(conversationID uint) {
	h.send(conversationID, WSMessage{
		Type:           MessageTypeMessageAdded,
		ConversationID: conversationID,
	})
}

func (h *Hub) send(conversationID uint, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal broadcast message", slog.Any("error", err))
		}
		return
	}
	h.broadcast <- &broadcastMessage{conversationID: conversationID, message: data}
}
