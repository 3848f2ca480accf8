package logger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger is a chi middleware that logs one line per request.
// Server errors log at Error, client errors at Warn, the rest at Info.
func (l *Logger) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			}
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				args = append(args, "request_id", reqID)
			}

			switch {
			case status >= http.StatusInternalServerError:
				l.Error("request failed", args...)
			case status >= http.StatusBadRequest:
				l.Warn("request rejected", args...)
			default:
				l.Info("request", args...)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}
