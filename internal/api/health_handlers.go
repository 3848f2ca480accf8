package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports whether the database answers",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status   string `json:"status" doc:"healthy or unhealthy"`
	Database string `json:"database" doc:"Database status"`
	Latency  string `json:"latency,omitempty" doc:"Database ping time"`
	Message  string `json:"message,omitempty" doc:"Failure detail"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Status int
	Body   HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("health check: database ping failed", "error", err)
		return &HealthOutput{
			Status: http.StatusServiceUnavailable,
			Body: HealthResponse{
				Status:   "unhealthy",
				Database: "unhealthy",
				Message:  err.Error(),
			},
		}, nil
	}

	return &HealthOutput{
		Status: http.StatusOK,
		Body: HealthResponse{
			Status:   "healthy",
			Database: "healthy",
			Latency:  time.Since(start).String(),
		},
	}, nil
}
