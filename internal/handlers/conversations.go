package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/services"
	"github.com/hudumahub/hudumahub/pkg/response"
)

// ConversationHandler exposes the caller's conversation directory.
type ConversationHandler struct {
	conversations *services.ConversationService
}

func NewConversationHandler(conversations *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// GET /api/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	conversations, err := h.conversations.ListForUser(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, conversations)
}

type openConversationRequest struct {
	PeerID string `json:"peer_id" validate:"required,uuid4"`
}

// POST /api/conversations resolves (or creates) the thread with a peer.
func (h *ConversationHandler) Open(c *gin.Context) {
	var req openConversationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	conversation, err := h.conversations.GetOrCreate(requestContext(c), currentUserID(c), req.PeerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, conversation)
}

// GET /api/conversations/:id
func (h *ConversationHandler) Get(c *gin.Context) {
	conversation, err := h.conversations.Get(requestContext(c), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, conversation)
}

// GET /api/conversations/:id/messages
func (h *ConversationHandler) Messages(c *gin.Context) {
	messages, err := h.conversations.Messages(requestContext(c), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, messages)
}
