package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/daiskipp/documenter/internal/models"
	"github.com/daiskipp/documenter/internal/repository"
	appErr "github.com/daiskipp/documenter/pkg/errors"
	"github.com/daiskipp/documenter/pkg/logger"
	"github.com/daiskipp/documenter/pkg/utils"
)

// TypeVersionPrune is the asynq task type for retention pruning.
const TypeVersionPrune = "version:prune"

// DocumentService sequences document mutations so that version capture and
// persistence never diverge: read stored state, decide capture, write the
// snapshot and the mutation in one transaction.
type DocumentService interface {
	CreateDocument(ctx context.Context, projectID uuid.UUID, input *CreateDocumentInput) (*models.Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListDocuments(ctx context.Context, projectID uuid.UUID) ([]models.Document, error)
	UpdateDocument(ctx context.Context, id uuid.UUID, input *UpdateDocumentInput) (*models.Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) (bool, error)
}

type CreateDocumentInput struct {
	Title   string
	Content *string
}

// UpdateDocumentInput carries a partial mutation. Nil means "leave the field
// untouched"; a pointer to the empty string is an explicit clear. The
// distinction is load-bearing for the capture policy.
type UpdateDocumentInput struct {
	Title   *string
	Content *string
}

type documentService struct {
	db             *gorm.DB
	projectRepo    repository.ProjectRepository
	documentRepo   repository.DocumentRepository
	asynqClient    *asynq.Client
	retentionLimit int
}

func NewDocumentService(db *gorm.DB, projectRepo repository.ProjectRepository, documentRepo repository.DocumentRepository, client *asynq.Client, retentionLimit int) DocumentService {
	return &documentService{
		db:             db,
		projectRepo:    projectRepo,
		documentRepo:   documentRepo,
		asynqClient:    client,
		retentionLimit: retentionLimit,
	}
}

var _ DocumentService = (*documentService)(nil)

func (s *documentService) CreateDocument(ctx context.Context, projectID uuid.UUID, input *CreateDocumentInput) (*models.Document, error) {
	logger.L().Info("create document", zap.String("project_id", projectID.String()), zap.String("title", input.Title))

	var p models.Project
	if err := s.projectRepo.Get(ctx, projectID, &p); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &models.Document{
		ProjectID: projectID,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	captured, capture := captureContent(nil, input.Content)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	if err := tx.Create(doc).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "create document failed")
	}

	if capture {
		if err := s.insertVersion(tx, doc.ID, captured, now); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	if capture {
		s.enqueuePrune(ctx, doc.ID)
	}

	logger.L().Info("document created", zap.String("document_id", doc.ID.String()), zap.Bool("captured", capture))
	return doc, nil
}

func (s *documentService) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var d models.Document
	if err := s.documentRepo.Get(ctx, id, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *documentService) ListDocuments(ctx context.Context, projectID uuid.UUID) ([]models.Document, error) {
	var p models.Project
	if err := s.projectRepo.Get(ctx, projectID, &p); err != nil {
		return nil, err
	}
	return s.documentRepo.ListByProject(ctx, projectID)
}

func (s *documentService) UpdateDocument(ctx context.Context, id uuid.UUID, input *UpdateDocumentInput) (*models.Document, error) {
	logger.L().Info("update document", zap.String("document_id", id.String()))

	var doc models.Document
	if err := s.documentRepo.Get(ctx, id, &doc); err != nil {
		return nil, err
	}

	// One clock read covers the snapshot and the mutated row, keeping version
	// timestamps per document monotonically non-decreasing.
	now := time.Now().UTC()

	captured, capture := captureContent(doc.Content, input.Content)

	updates := map[string]any{"updated_at": now}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	if capture {
		if err := s.insertVersion(tx, doc.ID, captured, now); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Model(&models.Document{}).Where("id = ?", doc.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "update document failed")
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	if capture {
		s.enqueuePrune(ctx, doc.ID)
	}

	if input.Title != nil {
		doc.Title = *input.Title
	}
	if input.Content != nil {
		c := *input.Content
		doc.Content = &c
	}
	doc.UpdatedAt = now

	logger.L().Info("document updated", zap.String("document_id", doc.ID.String()), zap.Bool("captured", capture))
	return &doc, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, id uuid.UUID) (bool, error) {
	logger.L().Info("delete document", zap.String("document_id", id.String()))

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return false, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	// Versions first to satisfy the foreign key.
	if err := tx.Where("document_id = ?", id).Delete(&models.Version{}).Error; err != nil {
		tx.Rollback()
		return false, appErr.Wrap(err, appErr.CodeInternal, "delete versions failed")
	}

	res := tx.Delete(&models.Document{}, "id = ?", id)
	if res.Error != nil {
		tx.Rollback()
		return false, appErr.Wrap(res.Error, appErr.CodeInternal, "delete document failed")
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return false, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	return res.RowsAffected > 0, nil
}

// insertVersion writes a snapshot row with the next per-document sequence
// number, computed inside the caller's transaction.
func (s *documentService) insertVersion(tx *gorm.DB, documentID uuid.UUID, content string, at time.Time) error {
	var maxNumber int
	if err := tx.Model(&models.Version{}).Where("document_id = ?", documentID).Select("COALESCE(MAX(number),0)").Scan(&maxNumber).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "compute version number failed")
	}

	v := &models.Version{
		DocumentID:  documentID,
		Number:      maxNumber + 1,
		Content:     content,
		ContentHash: utils.SHA256Hex([]byte(content)),
		CreatedAt:   at,
	}

	if err := tx.Create(v).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "create version failed")
	}
	return nil
}

// enqueuePrune schedules retention pruning after a capture. Best-effort: a
// missing client or a failed enqueue never fails the mutation.
func (s *documentService) enqueuePrune(ctx context.Context, documentID uuid.UUID) {
	if s.asynqClient == nil || s.retentionLimit <= 0 {
		return
	}
	payload, _ := json.Marshal(map[string]string{"document_id": documentID.String()})
	task := asynq.NewTask(TypeVersionPrune, payload)
	if _, err := s.asynqClient.EnqueueContext(ctx, task); err != nil {
		logger.L().Error("enqueue prune task failed", zap.Error(err), zap.String("document_id", documentID.String()))
	}
}
