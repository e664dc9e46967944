package service

import (
	"encoding/json"
	"testing"

	"github.com/Payphone-Digital/leadgen/internal/dto"
	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogService_CreateGetWithTOC(t *testing.T) {
	svc := NewBlogService(repository.NewBlogRepository(newTestDB(t)))
	ctx := t.Context()

	created, err := svc.Create(ctx, dto.CreateBlogInput{
		Title:   "Finding leads",
		Content: json.RawMessage(`{"blocks":[{"type":"h1","text":"Intro"},{"type":"p","text":"..."},{"type":"h2","text":"Tips"}]}`),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finding leads", got.Title)
	assert.Equal(t, []dto.TOCEntry{{Level: 1, Text: "Intro"}, {Level: 2, Text: "Tips"}}, got.TOC)
}

func TestBlogService_RejectsInvalidContent(t *testing.T) {
	svc := NewBlogService(repository.NewBlogRepository(newTestDB(t)))

	_, err := svc.Create(t.Context(), dto.CreateBlogInput{Title: "x", Content: json.RawMessage(`[1,2]`)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidContent)
}

func TestBlogService_UpdateDeleteListing(t *testing.T) {
	svc := NewBlogService(repository.NewBlogRepository(newTestDB(t)))
	ctx := t.Context()

	var ids []uuid.UUID
	for _, title := range []string{"one", "two", "three"} {
		created, err := svc.Create(ctx, dto.CreateBlogInput{Title: title, Content: json.RawMessage(`{"blocks":[]}`)})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	title := "renamed"
	updated, err := svc.Update(ctx, ids[0], dto.UpdateBlogInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.JSONEq(t, `{"blocks":[]}`, string(updated.Content))

	_, err = svc.Update(ctx, uuid.New(), dto.UpdateBlogInput{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)

	page, total, pages, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, 2, pages)

	require.NoError(t, svc.Delete(ctx, ids[1]))
	assert.ErrorIs(t, svc.Delete(ctx, ids[1]), apperrors.ErrBlogNotFound)

	_, err = svc.Get(ctx, ids[1])
	assert.ErrorIs(t, err, apperrors.ErrBlogNotFound)
}
