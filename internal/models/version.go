package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Version is an immutable snapshot of a document's content. Rows are only
// ever created and deleted; there is no update path and no updated_at.
// Number is a per-document sequence assigned inside the capture transaction,
// so ordering stays total even when two captures share a timestamp.
type Version struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DocumentID  uuid.UUID `gorm:"type:uuid;not null;index;index:idx_versions_document_number,unique" json:"document_id" validate:"required"`
	Number      int       `gorm:"not null;index:idx_versions_document_number,unique" json:"number" validate:"gte=1"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ContentHash string    `gorm:"type:varchar(64)" json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
}

func (v *Version) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
