package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	appErr "github.com/daiskipp/documenter/pkg/errors"
)

func TestCreateDocumentWithContentCapturesAnchor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.mustProject(t, "notes")

	doc, err := env.documents.CreateDocument(ctx, p.ID, &CreateDocumentInput{Title: "readme", Content: strptr("# hello")})
	require.NoError(t, err)
	require.True(t, doc.HasContent())

	vs, err := env.verRepo.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	require.Equal(t, "# hello", vs[0].Content)
	require.Equal(t, 1, vs[0].Number)
}

func TestCreateDocumentWithoutContentCapturesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.mustProject(t, "notes")

	doc, err := env.documents.CreateDocument(ctx, p.ID, &CreateDocumentInput{Title: "empty"})
	require.NoError(t, err)

	vs, err := env.verRepo.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Empty(t, vs)
}

func TestCreateDocumentUnknownProject(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.documents.CreateDocument(context.Background(), uuid.New(), &CreateDocumentInput{Title: "orphan"})
	require.Error(t, err)
	require.True(t, appErr.IsNotFound(err))
}

func TestUpdateDocumentCapturesPriorContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.mustProject(t, "notes")

	doc, err := env.documents.CreateDocument(ctx, p.ID, &CreateDocumentInput{Title: "d", Content: strptr("A")})
	require.NoError(t, err)

	updated, err := env.documents.UpdateDocument(ctx, doc.ID, &UpdateDocumentInput{Content: strptr("B")})
	require.NoError(t, err)
	require.Equal(t, "B", *updated.Content)

	vs, err := env.verRepo.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	// newest first: the capture of "A" taken right before the overwrite
	require.Equal(t, "A", vs[0].Content)
	require.Equal(t, 2, vs[0].Number)
}

func TestUpdateTitleOnlyNeverCaptures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.mustProject(t, "notes")

	doc, err := env.documents.CreateDocument(ctx, p.ID, &CreateDocumentInput{Title: "d", Content: strptr("A")})
	require.NoError(t, err)

	updated, err := env.documents.UpdateDocument(ctx, doc.ID, &UpdateDocumentInput{Title: strptr("renamed")})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Title)
	require.Equal(t, "A", *updated.Content)

	vs, err := env.verRepo.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, vs, 1)
}

func TestFirstContentViaUpdateAnchorsItself(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.mustProject(t, "notes")

	doc, err := env.documents.CreateDocument(ctx, p.ID, &CreateDocumentInput{Title: "d"})
	require.NoError(t, err)

	_, err = env.documents.UpdateDocument(ctx, doc.ID, &UpdateDocumentInput{Content: strptr("A")})
	require.NoError(t, err)

	vs, err := env.verRepo.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	require.Equal(t, "A", vs[0].Content)
}

func TestClearingContentPreservesPrior(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.mustProject(t, "notes")

	doc, err := env.documents.CreateDocument(ctx, p.ID, &CreateDocumentInput{Title: "d", Content: strptr("keep me")})
	require.NoError(t, err)

	updated, err := env.documents.UpdateDocument(ctx, doc.ID, &UpdateDocumentInput{Content: strptr("")})
	require.NoError(t, err)
	require.Equal(t, "", *updated.Content)

	vs, err := env.verRepo.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	require.Equal(t, "keep me", vs[0].Content)
}

func TestSameValueUpdateStillCaptures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.mustProject(t, "notes")

	doc, err := env.documents.CreateDocument(ctx, p.ID, &CreateDocumentInput{Title: "d", Content: strptr("A")})
	require.NoError(t, err)

	_, err = env.documents.UpdateDocument(ctx, doc.ID, &UpdateDocumentInput{Content: strptr("A")})
	require.NoError(t, err)

	vs, err := env.verRepo.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, vs, 2)
}

func TestUpdateDocumentNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.documents.UpdateDocument(context.Background(), uuid.New(), &UpdateDocumentInput{Title: strptr("x")})
	require.Error(t, err)
	require.True(t, appErr.IsNotFound(err))
}

func TestUpdateUsesSingleClockRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.mustProject(t, "notes")

	doc, err := env.documents.CreateDocument(ctx, p.ID, &CreateDocumentInput{Title: "d", Content: strptr("A")})
	require.NoError(t, err)

	updated, err := env.documents.UpdateDocument(ctx, doc.ID, &UpdateDocumentInput{Content: strptr("B")})
	require.NoError(t, err)

	vs, err := env.verRepo.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	require.True(t, vs[0].CreatedAt.Equal(updated.UpdatedAt))
}

func TestDeleteDocumentCascadesVersions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.mustProject(t, "notes")

	doc, err := env.documents.CreateDocument(ctx, p.ID, &CreateDocumentInput{Title: "d", Content: strptr("v1")})
	require.NoError(t, err)
	_, err = env.documents.UpdateDocument(ctx, doc.ID, &UpdateDocumentInput{Content: strptr("v2")})
	require.NoError(t, err)

	existed, err := env.documents.DeleteDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.True(t, existed)

	n, err := env.verRepo.CountByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = env.documents.GetDocument(ctx, doc.ID)
	require.True(t, appErr.IsNotFound(err))
}

func TestDeleteDocumentIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := uuid.New()

	for i := 0; i < 2; i++ {
		existed, err := env.documents.DeleteDocument(ctx, id)
		require.NoError(t, err)
		require.False(t, existed)
	}
}

func TestListDocumentsUnknownProject(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.documents.ListDocuments(context.Background(), uuid.New())
	require.Error(t, err)
	require.True(t, appErr.IsNotFound(err))
}
