package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/daiskipp/documenter/internal/models"
	"github.com/daiskipp/documenter/pkg/logger"
)

func TestMain(m *testing.M) {
	_, err := logger.Init("error", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.Document{}, &models.Version{}))
	return db
}

func seedHistory(t *testing.T, db *gorm.DB, count int) uuid.UUID {
	t.Helper()
	p := &models.Project{Name: "P"}
	require.NoError(t, db.Create(p).Error)
	d := &models.Document{ProjectID: p.ID, Title: "T"}
	require.NoError(t, db.Create(d).Error)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 1; i <= count; i++ {
		v := &models.Version{
			DocumentID: d.ID,
			Number:     i,
			Content:    fmt.Sprintf("rev %d", i),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(v).Error)
	}
	return d.ID
}

func pruneTask(t *testing.T, documentID uuid.UUID) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(PrunePayload{DocumentID: documentID.String()})
	require.NoError(t, err)
	return asynq.NewTask("version:prune", payload)
}

func TestHandlePruneKeepsNewest(t *testing.T) {
	db := newTestDB(t)
	docID := seedHistory(t, db, 5)

	h := NewPruneTaskHandler(db, 2)
	require.NoError(t, h.HandlePrune(context.Background(), pruneTask(t, docID)))

	var remaining []models.Version
	require.NoError(t, db.Where("document_id = ?", docID).Order("number ASC").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	require.Equal(t, 4, remaining[0].Number)
	require.Equal(t, 5, remaining[1].Number)
}

func TestHandlePruneUnderLimitIsNoop(t *testing.T) {
	db := newTestDB(t)
	docID := seedHistory(t, db, 2)

	h := NewPruneTaskHandler(db, 5)
	require.NoError(t, h.HandlePrune(context.Background(), pruneTask(t, docID)))

	var n int64
	require.NoError(t, db.Model(&models.Version{}).Where("document_id = ?", docID).Count(&n).Error)
	require.EqualValues(t, 2, n)
}

func TestHandlePruneLeavesOtherDocumentsAlone(t *testing.T) {
	db := newTestDB(t)
	docA := seedHistory(t, db, 4)
	docB := seedHistory(t, db, 4)

	h := NewPruneTaskHandler(db, 1)
	require.NoError(t, h.HandlePrune(context.Background(), pruneTask(t, docA)))

	var nA, nB int64
	require.NoError(t, db.Model(&models.Version{}).Where("document_id = ?", docA).Count(&nA).Error)
	require.NoError(t, db.Model(&models.Version{}).Where("document_id = ?", docB).Count(&nB).Error)
	require.EqualValues(t, 1, nA)
	require.EqualValues(t, 4, nB)
}

func TestHandlePruneRejectsBadPayload(t *testing.T) {
	db := newTestDB(t)
	h := NewPruneTaskHandler(db, 2)

	require.Error(t, h.HandlePrune(context.Background(), asynq.NewTask("version:prune", []byte("{"))))
	require.Error(t, h.HandlePrune(context.Background(), asynq.NewTask("version:prune", []byte(`{"document_id":"nope"}`))))
}

func TestHandlePruneDisabledLimit(t *testing.T) {
	db := newTestDB(t)
	docID := seedHistory(t, db, 3)

	h := NewPruneTaskHandler(db, 0)
	require.NoError(t, h.HandlePrune(context.Background(), pruneTask(t, docID)))

	var n int64
	require.NoError(t, db.Model(&models.Version{}).Where("document_id = ?", docID).Count(&n).Error)
	require.EqualValues(t, 3, n)
}
