package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/daiskipp/documenter/internal/models"
	"github.com/daiskipp/documenter/internal/repository"
	appErr "github.com/daiskipp/documenter/pkg/errors"
	"github.com/daiskipp/documenter/pkg/logger"
)

type ProjectService interface {
	CreateProject(ctx context.Context, input *CreateProjectInput) (*models.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, input *UpdateProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) (bool, error)
}

type CreateProjectInput struct {
	Name        string
	Description string
	Settings    map[string]interface{}
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	Settings    map[string]interface{}
}

type projectService struct {
	db          *gorm.DB
	projectRepo repository.ProjectRepository
}

func NewProjectService(db *gorm.DB, projectRepo repository.ProjectRepository) ProjectService {
	return &projectService{db: db, projectRepo: projectRepo}
}

var _ ProjectService = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, input *CreateProjectInput) (*models.Project, error) {
	logger.L().Info("create project", zap.String("name", input.Name))

	var settings datatypes.JSON
	if input.Settings != nil {
		b, err := json.Marshal(input.Settings)
		if err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid settings json")
		}
		settings = datatypes.JSON(b)
	}

	now := time.Now().UTC()
	p := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.L().Info("project created", zap.String("project_id", p.ID.String()))
	return p, nil
}

func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := s.projectRepo.Get(ctx, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *projectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.projectRepo.List(ctx)
}

func (s *projectService) UpdateProject(ctx context.Context, id uuid.UUID, input *UpdateProjectInput) (*models.Project, error) {
	logger.L().Info("update project", zap.String("project_id", id.String()))

	var p models.Project
	if err := s.projectRepo.Get(ctx, id, &p); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]any{"updated_at": now}
	if input.Name != nil {
		updates["name"] = *input.Name
		p.Name = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
		p.Description = *input.Description
	}
	if input.Settings != nil {
		b, err := json.Marshal(input.Settings)
		if err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid settings json")
		}
		updates["settings"] = datatypes.JSON(b)
		p.Settings = datatypes.JSON(b)
	}

	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "update project failed")
	}
	p.UpdatedAt = now

	logger.L().Info("project updated", zap.String("project_id", id.String()))
	return &p, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id uuid.UUID) (bool, error) {
	logger.L().Info("delete project", zap.String("project_id", id.String()))

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return false, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	// Foreign-key order: versions, then documents, then the project.
	docIDs := tx.Model(&models.Document{}).Select("id").Where("project_id = ?", id)
	if err := tx.Where("document_id IN (?)", docIDs).Delete(&models.Version{}).Error; err != nil {
		tx.Rollback()
		return false, appErr.Wrap(err, appErr.CodeInternal, "delete project versions failed")
	}

	if err := tx.Where("project_id = ?", id).Delete(&models.Document{}).Error; err != nil {
		tx.Rollback()
		return false, appErr.Wrap(err, appErr.CodeInternal, "delete project documents failed")
	}

	res := tx.Delete(&models.Project{}, "id = ?", id)
	if res.Error != nil {
		tx.Rollback()
		return false, appErr.Wrap(res.Error, appErr.CodeInternal, "delete project failed")
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return false, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	return res.RowsAffected > 0, nil
}
