package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptshelf/promptshelf-server/internal/domain"
)

var testPNG = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

type uploadForm struct {
	filename    string
	contentType string
	content     []byte
	fields      map[string]string
}

// upload posts a multipart form to the upload endpoint.
func (ts *testServer) upload(t *testing.T, form uploadForm) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range form.fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if form.filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, form.filename))
		h.Set("Content-Type", form.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(form.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/attachments", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.token)

	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)
	return w
}

func (ts *testServer) storedFiles(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(ts.uploads.Dir())
	require.NoError(t, err)
	return entries
}

func TestAttachments_UploadListDelete(t *testing.T) {
	ts := setupTestServer(t)
	p := ts.createPrompt(t, map[string]any{"title": "With screenshot"})

	resp := ts.upload(t, uploadForm{
		filename:    "screen.png",
		contentType: "image/png",
		content:     testPNG,
		fields:      map[string]string{"prompt_id": fmt.Sprint(p.ID), "description": "  before  "},
	})
	requireStatus(t, resp, http.StatusCreated)
	att := decode[domain.Attachment](t, resp)
	assert.Equal(t, "screen.png", att.Filename)
	assert.Equal(t, "image/png", att.Type)
	require.NotNil(t, att.PromptID)
	assert.Equal(t, p.ID, *att.PromptID)
	require.NotNil(t, att.Description)
	assert.Equal(t, "before", *att.Description)

	resp = ts.call(http.MethodGet, fmt.Sprintf("/api/attachments/prompt/%d", p.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	list := decode[[]domain.Attachment](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, att.ID, list[0].ID)

	// Stored files are served without a session.
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+att.Filepath, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testPNG, w.Body.Bytes())

	resp = ts.call(http.MethodDelete, fmt.Sprintf("/api/attachments/%d", att.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	assert.False(t, ts.uploads.Exists(att.Filepath))

	resp = ts.call(http.MethodGet, fmt.Sprintf("/api/attachments/prompt/%d", p.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	assert.JSONEq(t, `[]`, resp.Body.String())

	assertError(t, ts.call(http.MethodDelete, fmt.Sprintf("/api/attachments/%d", att.ID), nil), http.StatusNotFound, "NOT_FOUND")
}

func TestAttachments_KnowledgeOwner(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.call(http.MethodPost, "/api/knowledge", map[string]any{"title": "Diagram"})
	requireStatus(t, resp, http.StatusCreated)
	entry := decode[domain.KnowledgeEntry](t, resp)

	resp = ts.upload(t, uploadForm{
		filename:    "flow.png",
		contentType: "image/png",
		content:     testPNG,
		fields:      map[string]string{"knowledge_id": fmt.Sprint(entry.ID)},
	})
	requireStatus(t, resp, http.StatusCreated)

	resp = ts.call(http.MethodGet, fmt.Sprintf("/api/attachments/knowledge/%d", entry.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	assert.Len(t, decode[[]domain.Attachment](t, resp), 1)

	// Deleting the owner removes its files.
	requireStatus(t, ts.call(http.MethodDelete, fmt.Sprintf("/api/knowledge/%d", entry.ID), nil), http.StatusOK)
	assert.Empty(t, ts.storedFiles(t))
}

func TestAttachments_UploadRejected(t *testing.T) {
	ts := setupTestServer(t)
	p := ts.createPrompt(t, map[string]any{"title": "Owner"})
	owner := map[string]string{"prompt_id": fmt.Sprint(p.ID)}

	t.Run("too large", func(t *testing.T) {
		big := append(append([]byte(nil), testPNG...), make([]byte, 15<<20)...)
		resp := ts.upload(t, uploadForm{filename: "huge.png", contentType: "image/png", content: big, fields: owner})
		assertError(t, resp, http.StatusBadRequest, "PAYLOAD_TOO_LARGE")
	})

	t.Run("no file", func(t *testing.T) {
		resp := ts.upload(t, uploadForm{fields: owner})
		assertError(t, resp, http.StatusBadRequest, "BAD_REQUEST")
	})

	t.Run("no owner", func(t *testing.T) {
		resp := ts.upload(t, uploadForm{filename: "a.png", contentType: "image/png", content: testPNG})
		assertError(t, resp, http.StatusBadRequest, "BAD_REQUEST")
	})

	t.Run("unknown owner", func(t *testing.T) {
		resp := ts.upload(t, uploadForm{
			filename:    "a.png",
			contentType: "image/png",
			content:     testPNG,
			fields:      map[string]string{"prompt_id": "999"},
		})
		assertError(t, resp, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("disallowed type", func(t *testing.T) {
		resp := ts.upload(t, uploadForm{filename: "run.sh", contentType: "text/x-shellscript", content: []byte("#!/bin/sh\n"), fields: owner})
		assertError(t, resp, http.StatusBadRequest, "BAD_REQUEST")
	})

	t.Run("content mismatch", func(t *testing.T) {
		resp := ts.upload(t, uploadForm{filename: "fake.png", contentType: "image/png", content: []byte("plain text"), fields: owner})
		assertError(t, resp, http.StatusBadRequest, "BAD_REQUEST")
	})

	t.Run("no session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/attachments", nil)
		w := httptest.NewRecorder()
		ts.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	resp := ts.call(http.MethodGet, fmt.Sprintf("/api/attachments/prompt/%d", p.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	assert.JSONEq(t, `[]`, resp.Body.String())
	assert.Empty(t, ts.storedFiles(t))
}
