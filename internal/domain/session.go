package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is the correlation key threading retrieval and generation
// across the turns of one conversation.
type ChatSession struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ChatSession) TableName() string { return "chat_session" }

const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// ChatMessage is one turn of a session's transcript. Append-only: corrections
// are new messages, never edits.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`

	Role    string `gorm:"column:role;not null" json:"role"`
	Content string `gorm:"column:content;type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_message" }
