package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hudumahub/hudumahub/internal/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10 // 64 KiB

	sendBufferSize = 64
)

// inboundFrame is the only payload clients send on a joined session.
type inboundFrame struct {
	Message string `json:"message"`
}

// SessionOptions carries the resolved identity and conversation for a
// websocket join. Authentication and conversation resolution happen before
// the upgrade; a session only ever exists joined to one conversation.
type SessionOptions struct {
	UserID         string
	ConversationID string
	PeerID         string
	Messages       *services.MessageService
}

// Session is one websocket connection joined to one conversation.
type Session struct {
	hub    *Hub
	socket *websocket.Conn

	userID         string
	conversationID string
	peerID         string

	messages *services.MessageService

	send   chan Event
	sendMu sync.Mutex
	closed bool
	once   sync.Once
	log    *zap.Logger
}

// Serve upgrades the request to a websocket, joins the session to its
// conversation and blocks until the connection closes. Every stored message
// is broadcast to the whole conversation group, the sender included.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, opts SessionOptions) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	session := &Session{
		hub:            h,
		socket:         conn,
		userID:         opts.UserID,
		conversationID: opts.ConversationID,
		peerID:         opts.PeerID,
		messages:       opts.Messages,
		send:           make(chan Event, sendBufferSize),
		log: h.log.With(
			zap.String("user_id", opts.UserID),
			zap.String("conversation_id", opts.ConversationID),
		),
	}

	h.join(session)
	session.send <- Event{Type: "joined", ConversationID: opts.ConversationID}

	go session.writeLoop()
	session.readLoop(r.Context())
	return nil
}

// readLoop persists each inbound frame and then broadcasts it. Persist
// precedes broadcast so a delivered event always has a stored row behind it.
// Empty and malformed frames are dropped without closing the session.
func (s *Session) readLoop(ctx context.Context) {
	defer s.close()

	s.socket.SetReadLimit(maxMessageSize)
	_ = s.socket.SetReadDeadline(time.Now().Add(pongWait))
	s.socket.SetPongHandler(func(string) error {
		_ = s.socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := s.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.log.Debug("unexpected close", zap.Error(err))
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			s.log.Debug("dropping malformed frame", zap.Error(err))
			continue
		}
		if strings.TrimSpace(frame.Message) == "" {
			continue
		}

		message, err := s.messages.Append(ctx, services.AppendInput{
			SenderID:   s.userID,
			ReceiverID: s.peerID,
			Content:    frame.Message,
			Path:       "realtime",
		})
		if err != nil {
			s.log.Warn("persist failed", zap.Error(err))
			s.trySend(Event{Type: "error", Error: "message could not be delivered"})
			continue
		}

		s.hub.Broadcast(s.conversationID, Event{
			Type:      "chat.message",
			SenderID:  s.userID,
			MessageID: message.ID,
			Message:   message.Content,
		})
	}
}

func (s *Session) writeLoop() {
	defer s.close()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-s.send:
			_ = s.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.socket.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend queues an event for the write loop. It reports false when the
// buffer is full or the session is already closed; it never blocks and never
// sends on a closed channel.
func (s *Session) trySend(event Event) bool {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.send <- event:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.once.Do(func() {
		s.hub.leave(s)

		s.sendMu.Lock()
		s.closed = true
		close(s.send)
		s.sendMu.Unlock()

		if s.socket != nil {
			_ = s.socket.Close()
		}
	})
}
