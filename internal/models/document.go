package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a titled Markdown body belonging to one project. Content is the
// live editable field and the only one whose change triggers version capture.
// It is a pointer so "never set" stays distinct from "cleared to empty".
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id" validate:"required"`
	Title     string    `gorm:"not null" json:"title" validate:"required"`
	Content   *string   `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// HasContent reports whether the live body is non-empty.
func (d *Document) HasContent() bool {
	return d.Content != nil && *d.Content != ""
}
