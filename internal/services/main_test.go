package services

import (
	"context"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/daiskipp/documenter/internal/models"
	"github.com/daiskipp/documenter/internal/repository"
	"github.com/daiskipp/documenter/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Project{}, &models.Document{}, &models.Version{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db        *gorm.DB
	projects  ProjectService
	documents DocumentService
	versions  VersionService
	verRepo   repository.VersionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	projectRepo := repository.NewProjectRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	versionRepo := repository.NewVersionRepository(db)

	documents := NewDocumentService(db, projectRepo, documentRepo, nil, 0)
	return &testEnv{
		db:        db,
		projects:  NewProjectService(db, projectRepo),
		documents: documents,
		versions:  NewVersionService(documentRepo, versionRepo, documents),
		verRepo:   versionRepo,
	}
}

func (e *testEnv) mustProject(t *testing.T, name string) *models.Project {
	t.Helper()
	p, err := e.projects.CreateProject(context.Background(), &CreateProjectInput{Name: name})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}
