package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the isolation boundary: documents, sessions, and configuration
// are never visible across tenants. Identity is immutable once created.
type Tenant struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null" json:"name"`

	// PreferredLanguages is a free-text hint used as a tiebreaker when the
	// user's own language is ambiguous.
	PreferredLanguages string `gorm:"column:preferred_languages;type:text;not null;default:''" json:"preferred_languages,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Tenant) TableName() string { return "tenant" }
