package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	iauth "github.com/hudumahub/hudumahub/internal/auth"
	"github.com/hudumahub/hudumahub/internal/chat"
	"github.com/hudumahub/hudumahub/internal/services"
	"github.com/hudumahub/hudumahub/pkg/errors"
	"github.com/hudumahub/hudumahub/pkg/logger"
	"github.com/hudumahub/hudumahub/pkg/response"
)

// ChatHandler upgrades websocket sessions onto the chat hub. Browsers cannot
// set headers on websocket requests, so the bearer token rides a query
// parameter instead.
type ChatHandler struct {
	hub           *chat.Hub
	jwt           *iauth.JWTService
	users         *services.UserService
	conversations *services.ConversationService
	messages      *services.MessageService
}

func NewChatHandler(hub *chat.Hub, jwt *iauth.JWTService, users *services.UserService, conversations *services.ConversationService, messages *services.MessageService) *ChatHandler {
	return &ChatHandler{
		hub:           hub,
		jwt:           jwt,
		users:         users,
		conversations: conversations,
		messages:      messages,
	}
}

// GET /ws/chat/:receiverID?token=...
func (h *ChatHandler) Serve(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	claims, err := h.jwt.ValidateAccessToken(token)
	if err != nil {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	receiverID := c.Param("receiverID")
	if _, err := uuid.Parse(receiverID); err != nil {
		response.Error(c, errors.NewValidation("receiver_id", "must be a valid user id"))
		return
	}
	if receiverID == claims.UserID {
		response.Error(c, errors.NewValidation("receiver_id", "cannot chat with yourself"))
		return
	}
	if _, err := h.users.Get(requestContext(c), receiverID); err != nil {
		response.Error(c, err)
		return
	}

	conversation, err := h.conversations.GetOrCreate(requestContext(c), claims.UserID, receiverID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, chat.SessionOptions{
		UserID:         claims.UserID,
		ConversationID: conversation.ID,
		PeerID:         receiverID,
		Messages:       h.messages,
	}); err != nil {
		// Upgrade failures already wrote an HTTP error to the client.
		logger.WithModule("chat").Debug("websocket upgrade failed", zap.Error(err))
	}
}
