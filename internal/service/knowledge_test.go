package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

func TestKnowledgeService_HTMLConvertedToMarkdown(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	k, err := env.knowledge.CreateKnowledge(ctx, CreateKnowledgeRequest{
		Title:   "Pasted",
		Content: "<h1>Notes</h1><p>Use <strong>short</strong> prompts.</p>",
		Format:  FormatHTML,
	})
	require.NoError(t, err)
	assert.Contains(t, k.Content, "# Notes")
	assert.Contains(t, k.Content, "**short**")
	assert.NotContains(t, k.Content, "<p>")

	updated, err := env.knowledge.UpdateKnowledge(ctx, k.ID, UpdateKnowledgeRequest{
		Content: ptr("<ul><li>one</li></ul>"),
		Format:  FormatHTML,
	})
	require.NoError(t, err)
	assert.Contains(t, updated.Content, "one")
	assert.NotContains(t, updated.Content, "<li>")
	assert.Equal(t, "Pasted", updated.Title)
}

func TestKnowledgeService_MarkdownPassesThrough(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	k, err := env.knowledge.CreateKnowledge(ctx, CreateKnowledgeRequest{Title: "md", Content: "<b>kept</b>"})
	require.NoError(t, err)
	assert.Equal(t, "<b>kept</b>", k.Content)

	empty, err := env.knowledge.CreateKnowledge(ctx, CreateKnowledgeRequest{Title: "empty"})
	require.NoError(t, err)
	assert.Equal(t, "", empty.Content)

	_, err = env.knowledge.CreateKnowledge(ctx, CreateKnowledgeRequest{Title: "x", Format: "rtf"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestKnowledgeService_TagsAndDelete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tag, _, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "ref"})
	require.NoError(t, err)
	k, err := env.knowledge.CreateKnowledge(ctx, CreateKnowledgeRequest{Title: "entry", TagIDs: []int64{tag.ID}})
	require.NoError(t, err)

	list, err := env.knowledge.ListKnowledge(ctx, store.KnowledgeFilter{TagID: &tag.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"ref"}, list[0].Tags)

	a, err := env.attachments.Upload(ctx, UploadRequest{
		KnowledgeID: &k.ID,
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
		Size:        -1,
		Body:        bytes.NewReader(pdfBytes),
	})
	require.NoError(t, err)

	require.NoError(t, env.knowledge.DeleteKnowledge(ctx, k.ID))
	assert.False(t, env.storage.Exists(a.Filepath))

	_, err = env.knowledge.GetKnowledge(ctx, k.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
