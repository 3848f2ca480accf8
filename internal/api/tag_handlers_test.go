package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptshelf/promptshelf-server/internal/domain"
)

func TestTags_CreateIsIdempotent(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.call(http.MethodPost, "/api/tags", map[string]any{"name": "Research"})
	requireStatus(t, resp, http.StatusCreated)
	first := decode[domain.Tag](t, resp)
	assert.Equal(t, "#8b5cf6", first.Color)

	resp = ts.call(http.MethodPost, "/api/tags", map[string]any{"name": "  Research ", "color": "#000000"})
	requireStatus(t, resp, http.StatusOK)
	second := decode[domain.Tag](t, resp)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Color, second.Color)

	resp = ts.call(http.MethodGet, "/api/tags", nil)
	requireStatus(t, resp, http.StatusOK)
	tags := decode[[]domain.TagListItem](t, resp)
	require.Len(t, tags, 1)
	assert.Equal(t, 0, tags[0].UsageCount)
}

func TestTags_UsageCountAndDelete(t *testing.T) {
	ts := setupTestServer(t)

	tag := ts.createTag(t, "seo")
	p := ts.createPrompt(t, map[string]any{"title": "Meta description", "tags": []int64{tag.ID}})

	resp := ts.call(http.MethodGet, "/api/tags", nil)
	tags := decode[[]domain.TagListItem](t, resp)
	require.Len(t, tags, 1)
	assert.Equal(t, 1, tags[0].UsageCount)

	resp = ts.call(http.MethodDelete, fmt.Sprintf("/api/tags/%d", tag.ID), nil)
	requireStatus(t, resp, http.StatusOK)

	resp = ts.call(http.MethodGet, fmt.Sprintf("/api/prompts/%d", p.ID), nil)
	assert.Empty(t, decode[domain.PromptDetail](t, resp).Tags)

	assertError(t, ts.call(http.MethodDelete, fmt.Sprintf("/api/tags/%d", tag.ID), nil), http.StatusNotFound, "NOT_FOUND")
}

func TestTags_RenameConflict(t *testing.T) {
	ts := setupTestServer(t)

	ts.createTag(t, "alpha")
	beta := ts.createTag(t, "beta")

	resp := ts.call(http.MethodPut, fmt.Sprintf("/api/tags/%d", beta.ID), map[string]any{"name": "alpha"})
	assertError(t, resp, http.StatusConflict, "CONFLICT")

	resp = ts.call(http.MethodPut, fmt.Sprintf("/api/tags/%d", beta.ID), map[string]any{"color": "#abcdef"})
	requireStatus(t, resp, http.StatusOK)
	updated := decode[domain.Tag](t, resp)
	assert.Equal(t, "beta", updated.Name)
	assert.Equal(t, "#abcdef", updated.Color)
}

func TestPlatforms_CreateIsIdempotent(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.call(http.MethodPost, "/api/ai-platforms", map[string]any{"name": "Claude"})
	requireStatus(t, resp, http.StatusOK)
	assert.Equal(t, int64(2), decode[domain.AIPlatform](t, resp).ID)

	resp = ts.call(http.MethodPost, "/api/ai-platforms", map[string]any{"name": "Mistral"})
	requireStatus(t, resp, http.StatusCreated)
	created := decode[domain.AIPlatform](t, resp)
	assert.Equal(t, "#6366f1", created.Color)
	assert.Equal(t, "bot", created.Icon)

	resp = ts.call(http.MethodGet, "/api/ai-platforms", nil)
	requireStatus(t, resp, http.StatusOK)
	platforms := decode[[]domain.AIPlatformListItem](t, resp)
	require.NotEmpty(t, platforms)
	assert.Equal(t, created.ID, platforms[len(platforms)-1].ID)

	resp = ts.call(http.MethodPut, fmt.Sprintf("/api/ai-platforms/%d", created.ID), map[string]any{"icon": "sparkles"})
	requireStatus(t, resp, http.StatusOK)
	assert.Equal(t, "sparkles", decode[domain.AIPlatform](t, resp).Icon)

	requireStatus(t, ts.call(http.MethodDelete, fmt.Sprintf("/api/ai-platforms/%d", created.ID), nil), http.StatusOK)
}

func TestCategories_CRUD(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.call(http.MethodPost, "/api/categories", map[string]any{"name": "Sales"})
	requireStatus(t, resp, http.StatusCreated)
	cat := decode[domain.Category](t, resp)
	assert.Equal(t, "#6366f1", cat.Color)
	assert.Equal(t, "folder", cat.Icon)

	resp = ts.call(http.MethodPut, fmt.Sprintf("/api/categories/%d", cat.ID), map[string]any{"name": "Sales & Outreach"})
	requireStatus(t, resp, http.StatusOK)
	updated := decode[domain.Category](t, resp)
	assert.Equal(t, "Sales & Outreach", updated.Name)
	assert.Equal(t, cat.Color, updated.Color)

	p := ts.createPrompt(t, map[string]any{"title": "Pitch", "category_id": cat.ID})

	resp = ts.call(http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	assert.Equal(t, "category deleted", decode[MessageResponse](t, resp).Message)

	assertError(t, ts.call(http.MethodGet, fmt.Sprintf("/api/categories/%d", cat.ID), nil), http.StatusNotFound, "NOT_FOUND")

	resp = ts.call(http.MethodGet, fmt.Sprintf("/api/prompts/%d", p.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	assert.Nil(t, decode[domain.PromptDetail](t, resp).CategoryID)
}
