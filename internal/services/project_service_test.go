package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/daiskipp/documenter/internal/models"
	appErr "github.com/daiskipp/documenter/pkg/errors"
)

func TestProjectCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.CreateProject(ctx, &CreateProjectInput{
		Name:        "wiki",
		Description: "team wiki",
		Settings:    map[string]interface{}{"theme": "dark"},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, p.ID)

	got, err := env.projects.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "wiki", got.Name)

	updated, err := env.projects.UpdateProject(ctx, p.ID, &UpdateProjectInput{Name: strptr("handbook")})
	require.NoError(t, err)
	require.Equal(t, "handbook", updated.Name)
	require.Equal(t, "team wiki", updated.Description)
	require.False(t, updated.UpdatedAt.Before(got.UpdatedAt))

	all, err := env.projects.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestGetProjectNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.projects.GetProject(context.Background(), uuid.New())
	require.Error(t, err)
	require.True(t, appErr.IsNotFound(err))
}

func TestDeleteProjectCascadesDocumentsAndVersions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.mustProject(t, "doomed")

	var docs []uuid.UUID
	for _, title := range []string{"a", "b"} {
		doc, err := env.documents.CreateDocument(ctx, p.ID, &CreateDocumentInput{Title: title, Content: strptr("v1")})
		require.NoError(t, err)
		_, err = env.documents.UpdateDocument(ctx, doc.ID, &UpdateDocumentInput{Content: strptr("v2")})
		require.NoError(t, err)
		docs = append(docs, doc.ID)
	}

	existed, err := env.projects.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, existed)

	var nDocs, nVersions int64
	require.NoError(t, env.db.Model(&models.Document{}).Where("project_id = ?", p.ID).Count(&nDocs).Error)
	require.Zero(t, nDocs)
	for _, id := range docs {
		n, err := env.verRepo.CountByDocument(ctx, id)
		require.NoError(t, err)
		require.Zero(t, n)
	}
	require.NoError(t, env.db.Model(&models.Version{}).Count(&nVersions).Error)
	require.Zero(t, nVersions)
}

func TestDeleteProjectIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := uuid.New()

	for i := 0; i < 2; i++ {
		existed, err := env.projects.DeleteProject(ctx, id)
		require.NoError(t, err)
		require.False(t, existed)
	}
}
