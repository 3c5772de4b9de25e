package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/hudumahub/hudumahub/internal/auth"
	"github.com/hudumahub/hudumahub/internal/chat"
	"github.com/hudumahub/hudumahub/internal/database/testutil"
	"github.com/hudumahub/hudumahub/internal/models"
	"github.com/hudumahub/hudumahub/internal/services"
)

type chatHandlerFixture struct {
	db     *gorm.DB
	jwt    *iauth.JWTService
	server *httptest.Server
	alice  *models.User
	bob    *models.User
}

func newChatHandlerFixture(t *testing.T) *chatHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret", Issuer: "hudumahub-test"})
	require.NoError(t, err)

	users, err := services.NewUserService(db)
	require.NoError(t, err)
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

	handler := NewChatHandler(chat.NewHub(), jwt, users, conversations, messages)

	router := gin.New()
	router.GET("/ws/chat/:receiverID", handler.Serve)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &chatHandlerFixture{db: db, jwt: jwt, server: server, alice: alice, bob: bob}
}

func (f *chatHandlerFixture) wsURL(receiverID, token string) string {
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/chat/" + receiverID
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func (f *chatHandlerFixture) conversationCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.Conversation{}).Count(&count).Error)
	return count
}

func TestChatServeRejectsBadCredentials(t *testing.T) {
	fixture := newChatHandlerFixture(t)

	// Missing token.
	_, _, err := websocket.DefaultDialer.Dial(fixture.wsURL(fixture.bob.ID, ""), nil)
	require.Error(t, err)

	// Garbage token.
	_, _, err = websocket.DefaultDialer.Dial(fixture.wsURL(fixture.bob.ID, "not-a-jwt"), nil)
	require.Error(t, err)

	// A refused connection leaves no conversation behind.
	require.Zero(t, fixture.conversationCount(t))
}

func TestChatServeRejectsBadReceiver(t *testing.T) {
	fixture := newChatHandlerFixture(t)

	token, err := fixture.jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: fixture.alice.ID, Role: fixture.alice.Role})
	require.NoError(t, err)

	// Not a uuid.
	_, _, dialErr := websocket.DefaultDialer.Dial(fixture.wsURL("42", token), nil)
	require.Error(t, dialErr)

	// Self chat.
	_, _, dialErr = websocket.DefaultDialer.Dial(fixture.wsURL(fixture.alice.ID, token), nil)
	require.Error(t, dialErr)

	// Unknown user.
	_, _, dialErr = websocket.DefaultDialer.Dial(fixture.wsURL("00000000-0000-4000-8000-000000000000", token), nil)
	require.Error(t, dialErr)

	require.Zero(t, fixture.conversationCount(t))
}

func TestChatServeAcceptsValidToken(t *testing.T) {
	fixture := newChatHandlerFixture(t)

	token, err := fixture.jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: fixture.alice.ID, Role: fixture.alice.Role})
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(fixture.wsURL(fixture.bob.ID, token), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var joined chat.Event
	require.NoError(t, conn.ReadJSON(&joined))
	require.Equal(t, "joined", joined.Type)

	require.EqualValues(t, 1, fixture.conversationCount(t))
}
