package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptshelf/promptshelf-server/internal/http/response"
)

// APIError is the error type every API operation responds with. It
// implements huma.StatusError and serializes as {"error", "code"}.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Message string `json:"error" doc:"Human-readable error message"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to produce APIError values.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr
			}
		}

		// Request validation failures are plain bad requests to clients.
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}

		var details []string
		for _, err := range errs {
			if err != nil {
				details = append(details, err.Error())
			}
		}
		if len(details) > 0 {
			message = message + ": " + details[0]
		}

		apiErr := &APIError{
			status:  status,
			Message: message,
			Code:    string(response.StatusCode(status)),
		}
		if len(details) > 1 {
			apiErr.Details = details
		}
		return apiErr
	}
}

// toAPIError converts service and store errors into an APIError.
func toAPIError(err error) error {
	var statusErr huma.StatusError
	if errors.As(err, &statusErr) {
		return statusErr
	}

	status, body := response.Classify(err)
	return &APIError{
		status:  status,
		Message: body.Error,
		Code:    body.Code,
		Details: body.Details,
	}
}

// register adds an operation whose handler errors are mapped through toAPIError.
// Server errors are logged with the operation id.
func register[I, O any](s *Server, op huma.Operation, handler func(context.Context, *I) (*O, error)) {
	huma.Register(s.api, op, func(ctx context.Context, input *I) (*O, error) {
		out, err := handler(ctx, input)
		if err != nil {
			apiErr := toAPIError(err)
			var statusErr huma.StatusError
			if errors.As(apiErr, &statusErr) && statusErr.GetStatus() >= http.StatusInternalServerError {
				s.logger.Error("request failed", "operation", op.OperationID, "error", err)
			}
			return nil, apiErr
		}
		return out, nil
	})
}
