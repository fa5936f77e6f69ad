package tasks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/daiskipp/documenter/internal/models"
	appErr "github.com/daiskipp/documenter/pkg/errors"
	"github.com/daiskipp/documenter/pkg/logger"
)

// PrunePayload is the task payload for retention prune tasks.
type PrunePayload struct {
	DocumentID string `json:"document_id"`
}

// PruneTaskHandler trims a document's history down to the configured
// retention limit, deleting the oldest snapshots first.
type PruneTaskHandler struct {
	db   *gorm.DB
	keep int
}

func NewPruneTaskHandler(db *gorm.DB, keep int) *PruneTaskHandler {
	return &PruneTaskHandler{db: db, keep: keep}
}

func (h *PruneTaskHandler) HandlePrune(ctx context.Context, t *asynq.Task) error {
	var p PrunePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid prune task payload", zap.Error(err))
		return err
	}
	id, err := uuid.Parse(p.DocumentID)
	if err != nil {
		logger.L().Error("invalid document id in task", zap.Error(err))
		return err
	}

	if h.keep <= 0 {
		return nil
	}

	logger.L().Info("handling prune task", zap.String("document_id", id.String()), zap.Int("keep", h.keep))

	var victims []uuid.UUID
	err = h.db.WithContext(ctx).
		Model(&models.Version{}).
		Where("document_id = ?", id).
		Order("created_at DESC, number DESC").
		Offset(h.keep).
		Pluck("id", &victims).Error
	if err != nil {
		logger.L().Error("select prune victims failed", zap.Error(err))
		return appErr.Wrap(err, appErr.CodeInternal, "select prune victims failed")
	}
	if len(victims) == 0 {
		return nil
	}

	if err := h.db.WithContext(ctx).Where("id IN ?", victims).Delete(&models.Version{}).Error; err != nil {
		logger.L().Error("prune versions failed", zap.Error(err))
		return appErr.Wrap(err, appErr.CodeInternal, "prune versions failed")
	}

	logger.L().Info("pruned versions", zap.String("document_id", id.String()), zap.Int("deleted", len(victims)))
	return nil
}
