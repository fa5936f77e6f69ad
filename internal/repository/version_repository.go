package repository

import (
	"context"
	"errors"

	"github.com/daiskipp/documenter/internal/models"
	appErr "github.com/daiskipp/documenter/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VersionRepository interface {
	BaseRepository[models.Version]
	Get(ctx context.Context, id uuid.UUID, dest *models.Version) error
	// ListByDocument returns snapshots newest first. The per-document number
	// breaks created_at ties in insertion order.
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.Version, error)
	CountByDocument(ctx context.Context, documentID uuid.UUID) (int64, error)
}

type versionRepository struct {
	BaseRepository[models.Version]
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{BaseRepository: NewBaseRepository[models.Version](db), db: db}
}

func (r *versionRepository) Get(ctx context.Context, id uuid.UUID, dest *models.Version) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "version not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get version failed")
	}
	return nil
}

func (r *versionRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.Version, error) {
	var out []models.Version
	if err := r.db.WithContext(ctx).Where("document_id = ?", documentID).Order("created_at DESC, number DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list versions failed")
	}
	return out, nil
}

func (r *versionRepository) CountByDocument(ctx context.Context, documentID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Version{}).Where("document_id = ?", documentID).Count(&n).Error; err != nil {
		return 0, appErr.Wrap(err, appErr.CodeInternal, "count versions failed")
	}
	return n, nil
}
