package models

import "time"

type ChatConversation struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title     string    `gorm:"column:title;type:text" json:"title"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;index" json:"updated_at"`
}

func (ChatConversation) TableName() string { return "chat_conversations" }

type ChatMessage struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ConversationID string    `gorm:"column:conversation_id;type:uuid;index" json:"conversation_id"`
	Role           string    `gorm:"column:role;type:text" json:"role"` // "user" | "assistant"
	Content        string    `gorm:"column:content;type:text" json:"content"`
	AudioFileID    *string   `gorm:"column:audio_file_id;type:uuid" json:"audio_file_id,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
