package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hudumahub/hudumahub/internal/database/testutil"
	"github.com/hudumahub/hudumahub/internal/models"
	"github.com/hudumahub/hudumahub/internal/services"
)

type chatFixture struct {
	hub           *Hub
	db            *gorm.DB
	conversations *services.ConversationService
	messages      *services.MessageService
	conversation  *models.Conversation
	alice         *models.User
	bob           *models.User
	server        *httptest.Server
}

// newChatFixture wires a hub behind a test HTTP server. The handler trusts
// the user id from a query parameter; token validation is covered by the
// handler layer tests.
func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	conversations, err := services.NewConversationService(db)
	require.NoError(t, err)
	notifications, err := services.NewNotificationService(db)
	require.NoError(t, err)
	messages, err := services.NewMessageService(db, conversations, notifications)
	require.NoError(t, err)

	alice := &models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleClient, IsActive: true}
	require.NoError(t, db.Create(alice).Error)
	bob := &models.User{Username: "bob", Email: "bob@example.com", Password: "x", Role: models.RoleProvider, IsActive: true}
	require.NoError(t, db.Create(bob).Error)

	conversation, err := conversations.GetOrCreate(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	hub := NewHub()
	fixture := &chatFixture{
		hub:           hub,
		db:            db,
		conversations: conversations,
		messages:      messages,
		conversation:  conversation,
		alice:         alice,
		bob:           bob,
	}

	fixture.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		peerID := r.URL.Query().Get("peer")
		if peerID == "" {
			peerID = bob.ID
			if userID == bob.ID {
				peerID = alice.ID
			}
		}
		conv, err := conversations.GetOrCreate(r.Context(), userID, peerID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = hub.Serve(w, r, SessionOptions{
			UserID:         userID,
			ConversationID: conv.ID,
			PeerID:         peerID,
			Messages:       messages,
		})
	}))
	t.Cleanup(fixture.server.Close)

	return fixture
}

func (f *chatFixture) dial(t *testing.T, userID string) *websocket.Conn {
	return f.dialPair(t, userID, "")
}

func (f *chatFixture) dialPair(t *testing.T, userID, peerID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "?user=" + userID
	if peerID != "" {
		url += "&peer=" + peerID
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	// First frame is the join acknowledgement.
	var joined Event
	require.NoError(t, conn.ReadJSON(&joined))
	require.Equal(t, "joined", joined.Type)

	return conn
}

func TestHubPersistsThenBroadcasts(t *testing.T) {
	fixture := newChatFixture(t)

	sender := fixture.dial(t, fixture.alice.ID)
	receiver := fixture.dial(t, fixture.bob.ID)
	require.Equal(t, 2, fixture.hub.ConversationSessions(fixture.conversation.ID))

	require.NoError(t, sender.WriteJSON(map[string]string{"message": "habari"}))

	var event Event
	require.NoError(t, receiver.ReadJSON(&event))
	require.Equal(t, "chat.message", event.Type)
	require.Equal(t, fixture.alice.ID, event.SenderID)
	require.Equal(t, fixture.conversation.ID, event.ConversationID)
	require.Equal(t, "habari", event.Message)
	require.NotEmpty(t, event.MessageID)

	// The sender receives the echo too.
	var echo Event
	require.NoError(t, sender.ReadJSON(&echo))
	require.Equal(t, "chat.message", echo.Type)

	// The delivered event has a stored row behind it.
	var count int64
	require.NoError(t, fixture.db.Model(&models.Message{}).
		Where("conversation_id = ?", fixture.conversation.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestHubDropsEmptyAndMalformedFrames(t *testing.T) {
	fixture := newChatFixture(t)

	sender := fixture.dial(t, fixture.alice.ID)

	require.NoError(t, sender.WriteJSON(map[string]string{"message": "   "}))
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, sender.WriteJSON(map[string]string{"message": "real one"}))

	// Only the real message comes back; the dropped frames produce nothing.
	var event Event
	require.NoError(t, sender.ReadJSON(&event))
	require.Equal(t, "chat.message", event.Type)
	require.Equal(t, "real one", event.Message)

	var count int64
	require.NoError(t, fixture.db.Model(&models.Message{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestHubLeaveOnDisconnect(t *testing.T) {
	fixture := newChatFixture(t)

	conn := fixture.dial(t, fixture.alice.ID)
	require.Equal(t, 1, fixture.hub.ConversationSessions(fixture.conversation.ID))

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return fixture.hub.ConversationSessions(fixture.conversation.ID) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubBroadcastSurvivesBackpressure(t *testing.T) {
	hub := NewHub()

	// An unbuffered send channel with no write loop models a member that
	// stopped draining its queue.
	stuck := &Session{hub: hub, userID: "stuck", conversationID: "conv", send: make(chan Event), log: hub.log}
	hub.join(stuck)

	healthy := &Session{hub: hub, userID: "healthy", conversationID: "conv", send: make(chan Event, 4), log: hub.log}
	hub.join(healthy)

	done := make(chan struct{})
	go func() {
		hub.Broadcast("conv", Event{Type: "chat.message", Message: "habari"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow session")
	}

	// The slow member is gone, the healthy one still got the event.
	require.Equal(t, 1, hub.ConversationSessions("conv"))
	require.Equal(t, "habari", (<-healthy.send).Message)

	// The hub keeps working after the drop.
	hub.Broadcast("conv", Event{Type: "chat.message", Message: "bado"})
	require.Equal(t, "bado", (<-healthy.send).Message)
}

func TestSessionTrySendAfterClose(t *testing.T) {
	hub := NewHub()

	session := &Session{hub: hub, userID: "u", conversationID: "conv", send: make(chan Event, 1), log: hub.log}
	hub.join(session)
	session.close()

	require.NotPanics(t, func() {
		require.False(t, session.trySend(Event{Type: "error", Error: "late"}))
	})
}

func TestHubBroadcastStaysWithinConversation(t *testing.T) {
	fixture := newChatFixture(t)

	carol := &models.User{Username: "carol", Email: "carol@example.com", Password: "x", Role: models.RoleClient, IsActive: true}
	require.NoError(t, fixture.db.Create(carol).Error)

	sender := fixture.dial(t, fixture.alice.ID)
	receiver := fixture.dial(t, fixture.bob.ID)
	outsider := fixture.dialPair(t, carol.ID, fixture.bob.ID)

	require.NoError(t, sender.WriteJSON(map[string]string{"message": "between us"}))

	var event Event
	require.NoError(t, receiver.ReadJSON(&event))
	require.Equal(t, "between us", event.Message)

	// The carol-bob pair is a different conversation; nothing arrives there.
	_ = outsider.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var stray Event
	err := outsider.ReadJSON(&stray)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "timeout") || websocket.IsUnexpectedCloseError(err))
}
