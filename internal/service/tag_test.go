package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

func TestTagService_CreateIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, created, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "Deep Research"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.DefaultTagColor, first.Color)

	second, created, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "  Deep   Research ", Color: "#ff0000"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.DefaultTagColor, second.Color)

	tags, err := env.tags.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestTagService_CreateNormalizesUnicode(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	composed, _, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "Café"})
	require.NoError(t, err)

	decomposed, created, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "Café"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, composed.ID, decomposed.ID)
}

func TestTagService_CreateRejectsEmptyName(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := env.tags.CreateTag(context.Background(), CreateTagRequest{Name: " \t "})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTagService_RenameConflict(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	a, _, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "alpha"})
	require.NoError(t, err)
	_, _, err = env.tags.CreateTag(ctx, CreateTagRequest{Name: "beta"})
	require.NoError(t, err)

	_, err = env.tags.UpdateTag(ctx, a.ID, UpdateTagRequest{Name: ptr(" beta ")})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	renamed, err := env.tags.UpdateTag(ctx, a.ID, UpdateTagRequest{Name: ptr("gamma")})
	require.NoError(t, err)
	assert.Equal(t, "gamma", renamed.Name)
	assert.Equal(t, a.Color, renamed.Color)
}

func TestTagService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tag, _, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "gone"})
	require.NoError(t, err)
	p, err := env.prompts.CreatePrompt(ctx, CreatePromptRequest{Title: "P", TagIDs: []int64{tag.ID}})
	require.NoError(t, err)

	require.NoError(t, env.tags.DeleteTag(ctx, tag.ID))

	got, err := env.prompts.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	assert.ErrorIs(t, env.tags.DeleteTag(ctx, tag.ID), store.ErrNotFound)
}
