package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJSON_WritesBareData(t *testing.T) {
	w := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	JSON(w, http.StatusOK, map[string]int{"id": 4}, logger)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":4}`, w.Body.String())
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	Created(w, map[string]string{"filename": "a.png"}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"filename":"a.png"}`, w.Body.String())
}

func TestUnauthorized(t *testing.T) {
	w := httptest.NewRecorder()
	Unauthorized(w, "authentication required", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "authentication required", body.Error)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequests(w, "slow down", nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeBody(t, w).Code)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "domain not found",
			err:     domainerrors.NotFound("prompt not found"),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "prompt not found",
		},
		{
			name:    "oversized upload is a bad request",
			err:     domainerrors.PayloadTooLarge("file too large (max 10MB)"),
			status:  http.StatusBadRequest,
			code:    "PAYLOAD_TOO_LARGE",
			message: "file too large (max 10MB)",
		},
		{
			name:    "wrapped store not found",
			err:     errors.Join(errors.New("lookup"), store.ErrNotFound.WithMessage("tag 9 not found")),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "tag 9 not found",
		},
		{
			name:    "store conflict",
			err:     store.ErrAlreadyExists.WithMessage("tag name already in use"),
			status:  http.StatusConflict,
			code:    "CONFLICT",
			message: "tag name already in use",
		},
		{
			name:    "unknown error echoes raw message",
			err:     errors.New("database is locked"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_ERROR",
			message: "database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, domainerrors.BadRequest("no file uploaded"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "no file uploaded", body.Error)
	assert.Equal(t, "BAD_REQUEST", body.Code)
}
