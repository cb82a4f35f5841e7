package domain

import "time"

// Conversation links a recruiter and a college. Call requests reference one for
// audit/context; the signaling layer never reads it.
type Conversation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecruiterID uint      `gorm:"index;not null" json:"recruiterId"`
	CollegeID   uint      `gorm:"index;not null" json:"collegeId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Message is one entry of a conversation. Senders are recruiters or colleges;
// the reminder worker also posts here on behalf of the requesting recruiter.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversationId"`
	SenderID       uint      `gorm:"not null" json:"senderId"`
	SenderRole     Role      `gorm:"type:varchar(20);not null" json:"senderRole"`
	Body           string    `gorm:"type:text;not null" json:"message"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
