// Package response writes JSON bodies and error responses for handlers that
// sit outside the typed API, such as multipart uploads and middleware.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error" doc:"Human-readable error message"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// JSON writes data as the response body with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Created writes a 201 Created response.
func Created(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusCreated, data, logger)
}

// Error writes an error body with the given status and code.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	JSON(w, status, ErrorBody{Error: message, Code: string(code)}, logger)
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusUnauthorized, domainerrors.CodeUnauthorized, message, logger)
}

// TooManyRequests writes a 429 Too Many Requests response.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusTooManyRequests, domainerrors.CodeTooManyRequests, message, logger)
}

// HandleError writes the response for err as classified by Classify.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status, body := Classify(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	JSON(w, status, body, logger)
}

// Classify maps an error to its status code and body. Domain errors and
// store errors keep their own status; anything else is a 500 carrying the
// raw error message.
func Classify(err error) (int, ErrorBody) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.HTTPStatus(), ErrorBody{
			Error:   domainErr.Message,
			Code:    string(domainErr.Code),
			Details: domainErr.Details,
		}
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return storeErr.HTTPCode(), ErrorBody{
			Error: storeErr.Message,
			Code:  string(StatusCode(storeErr.HTTPCode())),
		}
	}

	return http.StatusInternalServerError, ErrorBody{
		Error: err.Error(),
		Code:  string(domainerrors.CodeInternal),
	}
}

// StatusCode maps an HTTP status to the closest domain error code.
func StatusCode(status int) domainerrors.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domainerrors.CodeValidation
	case http.StatusUnauthorized:
		return domainerrors.CodeUnauthorized
	case http.StatusNotFound:
		return domainerrors.CodeNotFound
	case http.StatusConflict:
		return domainerrors.CodeConflict
	case http.StatusRequestEntityTooLarge:
		return domainerrors.CodePayloadTooLarge
	case http.StatusTooManyRequests:
		return domainerrors.CodeTooManyRequests
	default:
		if status < http.StatusInternalServerError {
			return domainerrors.CodeBadRequest
		}
		return domainerrors.CodeInternal
	}
}
