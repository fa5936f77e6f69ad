package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daiskipp/documenter/internal/models"
	"github.com/daiskipp/documenter/internal/repository"
	appErr "github.com/daiskipp/documenter/pkg/errors"
	"github.com/daiskipp/documenter/pkg/logger"
)

// VersionService exposes a document's history and restores past snapshots.
// Restore funnels through DocumentService.UpdateDocument, so the current
// content is itself captured before being overwritten — restore only ever
// adds history.
type VersionService interface {
	ListVersions(ctx context.Context, documentID uuid.UUID) ([]models.Version, error)
	GetVersion(ctx context.Context, id uuid.UUID) (*models.Version, error)
	RestoreVersion(ctx context.Context, documentID, versionID uuid.UUID) (*models.Document, error)
	DeleteVersion(ctx context.Context, id uuid.UUID) (bool, error)
}

type versionService struct {
	documentRepo repository.DocumentRepository
	versionRepo  repository.VersionRepository
	documents    DocumentService
}

func NewVersionService(documentRepo repository.DocumentRepository, versionRepo repository.VersionRepository, documents DocumentService) VersionService {
	return &versionService{documentRepo: documentRepo, versionRepo: versionRepo, documents: documents}
}

var _ VersionService = (*versionService)(nil)

func (s *versionService) ListVersions(ctx context.Context, documentID uuid.UUID) ([]models.Version, error) {
	var d models.Document
	if err := s.documentRepo.Get(ctx, documentID, &d); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByDocument(ctx, documentID)
}

func (s *versionService) GetVersion(ctx context.Context, id uuid.UUID) (*models.Version, error) {
	var v models.Version
	if err := s.versionRepo.Get(ctx, id, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *versionService) RestoreVersion(ctx context.Context, documentID, versionID uuid.UUID) (*models.Document, error) {
	logger.L().Info("restore version", zap.String("document_id", documentID.String()), zap.String("version_id", versionID.String()))

	var v models.Version
	if err := s.versionRepo.Get(ctx, versionID, &v); err != nil {
		return nil, err
	}
	if v.DocumentID != documentID {
		return nil, appErr.New(appErr.CodeNotFound, "version does not belong to document")
	}

	doc, err := s.documents.UpdateDocument(ctx, documentID, &UpdateDocumentInput{Content: &v.Content})
	if err != nil {
		return nil, err
	}

	logger.L().Info("version restored", zap.String("document_id", documentID.String()), zap.Int("number", v.Number))
	return doc, nil
}

func (s *versionService) DeleteVersion(ctx context.Context, id uuid.UUID) (bool, error) {
	// No cascade and no last-version guard: a version owns nothing, and
	// protecting the most recent snapshot is a presentation concern.
	return s.versionRepo.Delete(ctx, id)
}
