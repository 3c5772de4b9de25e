package models

// Conversation is the canonical thread between exactly two users. The
// participant pair is stored in ascending id order so an unordered pair maps
// to at most one row; the composite unique index is what makes concurrent
// first-contact creation converge.
type Conversation struct {
	BaseModel

	ParticipantLowID  string `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_pair" json:"participant_low_id"`
	ParticipantHighID string `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_pair" json:"participant_high_id"`

	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// Includes reports whether the supplied user is one of the two participants.
func (c *Conversation) Includes(userID string) bool {
	return c.ParticipantLowID == userID || c.ParticipantHighID == userID
}

// PeerOf returns the other participant for the supplied user, or the empty
// string when the user is not part of the conversation.
func (c *Conversation) PeerOf(userID string) string {
	switch userID {
	case c.ParticipantLowID:
		return c.ParticipantHighID
	case c.ParticipantHighID:
		return c.ParticipantLowID
	}
	return ""
}
