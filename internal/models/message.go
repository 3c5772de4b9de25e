package models

// Message is a chat message owned by its conversation. The conversation id is
// back-filled from the (sender, receiver) pair when absent at creation, so
// every message ends up on the canonical conversation for its pair. Within a
// conversation messages are ordered by created_at with id as the tie-break.
type Message struct {
	BaseModel

	ConversationID string `gorm:"type:uuid;index;not null" json:"conversation_id"`
	SenderID       string `gorm:"type:uuid;index;not null" json:"sender_id"`
	ReceiverID     string `gorm:"type:uuid;index;not null" json:"receiver_id"`

	Content string `gorm:"type:text;not null" json:"content"`
	IsRead  bool   `gorm:"default:false;index" json:"is_read"`
}
