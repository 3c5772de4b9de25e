package chat

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hudumahub/hudumahub/pkg/logger"
	"github.com/hudumahub/hudumahub/pkg/metrics"
)

// Event is a JSON payload delivered to joined chat sessions. Message carries
// the message text; MessageID points at the stored row behind it.
type Event struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	SenderID       string `json:"sender_id,omitempty"`
	MessageID      string `json:"message_id,omitempty"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Hub tracks which sessions are joined to which conversation. Delivery is
// per-session via a buffered channel; a session that cannot keep up is
// dropped rather than blocking the broadcaster.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*Session]struct{}

	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHub constructs a chat hub.
func NewHub() *Hub {
	return &Hub{
		groups: make(map[string]map[*Session]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				originHost := hostWithoutPort(origin)
				requestHost := hostWithoutPort(r.Host)
				return originHost == requestHost || isLoopback(originHost)
			},
		},
		log: logger.WithModule("chat"),
	}
}

// Broadcast delivers an event to every session joined to the conversation.
// Sessions whose buffers are full are collected during the scan and closed
// afterwards, so a slow member never blocks delivery to the rest.
func (h *Hub) Broadcast(conversationID string, event Event) {
	if conversationID == "" {
		return
	}
	event.ConversationID = conversationID

	var dropped []*Session

	h.mu.RLock()
	for session := range h.groups[conversationID] {
		if !session.trySend(event) {
			dropped = append(dropped, session)
		}
	}
	h.mu.RUnlock()

	// close re-enters the hub lock through leave, so it must stay outside
	// the read-locked scan.
	for _, session := range dropped {
		h.log.Warn("dropping backpressure session",
			zap.String("user_id", session.userID),
			zap.String("conversation_id", session.conversationID))
		session.close()
	}
}

// ConversationSessions reports how many sessions are joined to a conversation.
func (h *Hub) ConversationSessions(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[conversationID])
}

func (h *Hub) join(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groups[session.conversationID] == nil {
		h.groups[session.conversationID] = make(map[*Session]struct{})
	}
	h.groups[session.conversationID][session] = struct{}{}
	metrics.ChatConnections.Inc()
}

func (h *Hub) leave(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[session.conversationID]
	if !ok {
		return
	}
	if _, joined := group[session]; !joined {
		return
	}

	delete(group, session)
	if len(group) == 0 {
		delete(h.groups, session.conversationID)
	}
	metrics.ChatConnections.Dec()
}

func hostWithoutPort(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}

	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		parsed, err := http.NewRequest(http.MethodGet, host, nil)
		if err == nil {
			return hostWithoutPort(parsed.URL.Host)
		}
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func isLoopback(host string) bool {
	ip := net.ParseIP(host)
	if ip != nil {
		return ip.IsLoopback()
	}
	return strings.EqualFold(host, "localhost")
}
