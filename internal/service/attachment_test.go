package service

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	pdfBytes = []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	svgBytes = []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)
)

func uploadedFiles(t *testing.T, env *testEnv) []string {
	t.Helper()
	entries, err := os.ReadDir(env.storage.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestAttachmentService_Upload(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	p, err := env.prompts.CreatePrompt(ctx, CreatePromptRequest{Title: "owner"})
	require.NoError(t, err)

	for _, tc := range []struct {
		name, contentType string
		body              []byte
	}{
		{"Screenshot.PNG", "image/png", pngBytes},
		{"spec.pdf", "application/pdf", pdfBytes},
		{"logo.svg", "image/svg+xml", svgBytes},
	} {
		a, err := env.attachments.Upload(ctx, UploadRequest{
			PromptID:    &p.ID,
			Filename:    tc.name,
			ContentType: tc.contentType,
			Size:        int64(len(tc.body)),
			Description: ptr("from test"),
			Body:        bytes.NewReader(tc.body),
		})
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.name, a.Filename)
		assert.Equal(t, tc.contentType, a.Type)
		assert.NotEqual(t, tc.name, a.Filepath)

		stored, err := os.ReadFile(env.storage.Path(a.Filepath))
		require.NoError(t, err)
		assert.Equal(t, tc.body, stored)
	}

	list, err := env.attachments.ListForPrompt(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Screenshot.PNG", list[0].Filename)
	assert.True(t, strings.HasSuffix(list[0].Filepath, ".png"))
}

func TestAttachmentService_UploadRejects(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	p, err := env.prompts.CreatePrompt(ctx, CreatePromptRequest{Title: "owner"})
	require.NoError(t, err)
	k, err := env.knowledge.CreateKnowledge(ctx, CreateKnowledgeRequest{Title: "k"})
	require.NoError(t, err)

	cases := []struct {
		name string
		req  UploadRequest
		want error
	}{
		{"no owner", UploadRequest{Filename: "a.png", ContentType: "image/png"}, domainerrors.ErrBadRequest},
		{"two owners", UploadRequest{PromptID: &p.ID, KnowledgeID: &k.ID, Filename: "a.png", ContentType: "image/png"}, domainerrors.ErrBadRequest},
		{"bad extension", UploadRequest{PromptID: &p.ID, Filename: "a.exe", ContentType: "image/png"}, domainerrors.ErrBadRequest},
		{"bad mime", UploadRequest{PromptID: &p.ID, Filename: "a.png", ContentType: "text/html"}, domainerrors.ErrBadRequest},
		{"declared too large", UploadRequest{PromptID: &p.ID, Filename: "a.png", ContentType: "image/png", Size: 15 << 20}, domainerrors.ErrPayloadTooLarge},
		{"missing prompt", UploadRequest{PromptID: ptr(int64(999)), Filename: "a.png", ContentType: "image/png"}, store.ErrNotFound},
		{"missing knowledge", UploadRequest{KnowledgeID: ptr(int64(999)), Filename: "a.png", ContentType: "image/png"}, store.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.Body = bytes.NewReader(pngBytes)
			_, err := env.attachments.Upload(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("content mismatch", func(t *testing.T) {
		_, err := env.attachments.Upload(ctx, UploadRequest{
			PromptID:    &p.ID,
			Filename:    "fake.png",
			ContentType: "image/png",
			Size:        -1,
			Body:        strings.NewReader("#!/bin/sh\necho hi\n"),
		})
		assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
	})

	t.Run("stream over limit", func(t *testing.T) {
		body := append(append([]byte{}, pngBytes...), make([]byte, 15<<20)...)
		_, err := env.attachments.Upload(ctx, UploadRequest{
			PromptID:    &p.ID,
			Filename:    "huge.png",
			ContentType: "image/png",
			Size:        -1,
			Body:        bytes.NewReader(body),
		})
		assert.ErrorIs(t, err, domainerrors.ErrPayloadTooLarge)
	})

	list, err := env.attachments.ListForPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, uploadedFiles(t, env))
}

func TestAttachmentService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	k, err := env.knowledge.CreateKnowledge(ctx, CreateKnowledgeRequest{Title: "k"})
	require.NoError(t, err)

	upload := func() int64 {
		a, err := env.attachments.Upload(ctx, UploadRequest{
			KnowledgeID: &k.ID,
			Filename:    "a.png",
			ContentType: "image/png",
			Size:        int64(len(pngBytes)),
			Body:        bytes.NewReader(pngBytes),
		})
		require.NoError(t, err)
		return a.ID
	}

	first := upload()
	require.NoError(t, env.attachments.DeleteAttachment(ctx, first))
	assert.Empty(t, uploadedFiles(t, env))

	second := upload()
	a, err := env.store.GetAttachment(ctx, second)
	require.NoError(t, err)
	require.NoError(t, os.Remove(env.storage.Path(a.Filepath)))
	require.NoError(t, env.attachments.DeleteAttachment(ctx, second), "missing file is not an error")

	list, err := env.attachments.ListForKnowledge(ctx, k.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, env.attachments.DeleteAttachment(ctx, second), store.ErrNotFound)
}
