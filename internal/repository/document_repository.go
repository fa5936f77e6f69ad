package repository

import (
	"context"
	"errors"

	"github.com/daiskipp/documenter/internal/models"
	appErr "github.com/daiskipp/documenter/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	BaseRepository[models.Document]
	Get(ctx context.Context, id uuid.UUID, dest *models.Document) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Document, error)
}

type documentRepository struct {
	BaseRepository[models.Document]
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{BaseRepository: NewBaseRepository[models.Document](db), db: db}
}

func (r *documentRepository) Get(ctx context.Context, id uuid.UUID, dest *models.Document) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "document not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get document failed")
	}
	return nil
}

func (r *documentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Document, error) {
	var out []models.Document
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list documents failed")
	}
	return out, nil
}
