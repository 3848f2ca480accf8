package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptshelf/promptshelf-server/internal/backup"
	"github.com/promptshelf/promptshelf-server/internal/domain"
)

func (ts *testServer) export(t *testing.T) backup.Snapshot {
	t.Helper()
	resp := ts.call(http.MethodGet, "/api/export", nil)
	requireStatus(t, resp, http.StatusOK)
	assert.Equal(t, "attachment; filename="+backup.ExportFilename, resp.Header().Get("Content-Disposition"))
	return decode[backup.Snapshot](t, resp)
}

func TestExport_LeavesOutPlatformsAndResponses(t *testing.T) {
	ts := setupTestServer(t)

	tag := ts.createTag(t, "daily")
	p := ts.createPrompt(t, map[string]any{"title": "Standup", "tags": []int64{tag.ID}, "ai_platforms": []int64{1}})
	requireStatus(t, ts.call(http.MethodPost, "/api/ai-responses", map[string]any{"title": "Answer", "prompt_id": p.ID}), http.StatusCreated)

	snap := ts.export(t)
	assert.Equal(t, backup.FormatVersion, snap.Version)
	require.NotNil(t, snap.Data)
	assert.Len(t, snap.Data.Categories, 7)
	assert.Len(t, snap.Data.Prompts, 1)
	assert.Len(t, snap.Data.PromptTags, 1)

	resp := ts.call(http.MethodGet, "/api/export", nil)
	body := decode[map[string]any](t, resp)
	data := body["data"].(map[string]any)
	assert.NotContains(t, data, "ai_platforms")
	assert.NotContains(t, data, "ai_responses")
	assert.NotContains(t, data, "attachments")
}

func TestImport_ReplaceRestoresExport(t *testing.T) {
	ts := setupTestServer(t)

	tag := ts.createTag(t, "keep")
	parent := ts.createPrompt(t, map[string]any{"title": "Parent", "category_id": 2, "tags": []int64{tag.ID}})
	ts.createPrompt(t, map[string]any{"title": "Child", "parent_id": parent.ID, "is_building_block": true})
	requireStatus(t, ts.call(http.MethodPost, "/api/knowledge", map[string]any{"title": "Notes", "tags": []int64{tag.ID}}), http.StatusCreated)

	before := ts.export(t)

	// Changes made after the export are discarded by a replace import.
	ts.createPrompt(t, map[string]any{"title": "Later"})
	ts.createTag(t, "later")

	resp := ts.call(http.MethodPost, "/api/import", map[string]any{"data": before.Data})
	requireStatus(t, resp, http.StatusOK)
	result := decode[ImportResponse](t, resp)
	assert.Equal(t, "import successful", result.Message)
	assert.False(t, result.Merged)
	assert.Equal(t, 2, result.Imported["prompts"])

	after := ts.export(t)
	assert.Equal(t, before.Data, after.Data)

	resp = ts.call(http.MethodGet, fmt.Sprintf("/api/prompts/%d", parent.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	detail := decode[domain.PromptDetail](t, resp)
	require.Len(t, detail.Children, 1)
	require.Len(t, detail.Tags, 1)
	assert.Equal(t, "keep", detail.Tags[0].Name)
}

func TestImport_MergeUpdatesInPlace(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.call(http.MethodPost, "/api/categories", map[string]any{"name": "Sales"})
	requireStatus(t, resp, http.StatusCreated)
	cat := decode[domain.Category](t, resp)
	p := ts.createPrompt(t, map[string]any{"title": "Pitch", "category_id": cat.ID})

	resp = ts.call(http.MethodPost, "/api/import", map[string]any{
		"merge": true,
		"data": map[string]any{
			"categories": []map[string]any{{"id": cat.ID, "name": "Sales v2", "color": "#111111", "icon": "briefcase"}},
		},
	})
	requireStatus(t, resp, http.StatusOK)
	assert.True(t, decode[ImportResponse](t, resp).Merged)

	resp = ts.call(http.MethodGet, fmt.Sprintf("/api/categories/%d", cat.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	updated := decode[domain.Category](t, resp)
	assert.Equal(t, "Sales v2", updated.Name)
	assert.Equal(t, "#111111", updated.Color)

	prompts := ts.listPrompts(t, "")
	require.Len(t, prompts, 1)
	assert.Equal(t, p.ID, prompts[0].ID)
	require.NotNil(t, prompts[0].CategoryName)
	assert.Equal(t, "Sales v2", *prompts[0].CategoryName)
}

func TestImport_RequiresData(t *testing.T) {
	ts := setupTestServer(t)
	ts.createPrompt(t, map[string]any{"title": "Survivor"})

	resp := ts.call(http.MethodPost, "/api/import", map[string]any{"merge": false})
	assertError(t, resp, http.StatusBadRequest, "BAD_REQUEST")
	assert.Equal(t, "no data to import", decode[map[string]any](t, resp)["error"])

	assert.Len(t, ts.listPrompts(t, ""), 1)
}
