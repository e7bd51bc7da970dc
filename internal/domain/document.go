package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one bounded-size slice of an ingested document,
// independently embedded. Immutable after creation; removed wholesale by
// filename or tenant. The embedding column is pgvector; the fts column is a
// generated tsvector maintained in SQL (see internal/db).
type DocumentChunk struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`

	Filename string `gorm:"column:filename;not null;index" json:"filename"`
	Content  string `gorm:"column:content;type:text;not null" json:"content"`

	// Embedding is written through raw SQL with an explicit ::vector cast;
	// gorm only needs to know the column exists.
	Embedding string `gorm:"column:embedding;type:vector(768)" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (DocumentChunk) TableName() string { return "document_chunk" }
