package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/services"
	"github.com/hudumahub/hudumahub/pkg/response"
)

// MessageHandler exposes the synchronous message surface. The realtime path
// lives in the chat handler; both converge on the same message store.
type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,uuid4"`
	Content    string `json:"content" validate:"required,max=5000"`
}

// POST /api/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	message, err := h.messages.Append(requestContext(c), services.AppendInput{
		SenderID:   currentUserID(c),
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, message)
}

// GET /api/messages
func (h *MessageHandler) List(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 25)
	offset := parseIntQuery(c, "offset", 0)

	messages, err := h.messages.ListForUser(requestContext(c), currentUserID(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, messages)
}

// GET /api/messages/received?mark_read=true
func (h *MessageHandler) Received(c *gin.Context) {
	markRead := parseBoolQuery(c, "mark_read")

	messages, err := h.messages.ListReceived(requestContext(c), currentUserID(c), markRead)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, messages)
}

// POST /api/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	message, err := h.messages.MarkRead(requestContext(c), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, message)
}

// POST /api/messages/read-all?sender_id=...
func (h *MessageHandler) MarkAllRead(c *gin.Context) {
	affected, err := h.messages.MarkAllRead(requestContext(c), currentUserID(c), c.Query("sender_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked_read": affected})
}
