package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/krushiiq/apiserver/internal/services"
	"go.uber.org/zap"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type contextKey string

const contextUserIDKey contextKey = "user_id"

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextUserIDKey, userID)
}

func userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextUserIDKey).(string)
	if !ok || userID == "" {
		return "", errors.New("missing subject")
	}
	return userID, nil
}

// SuccessResponse wraps every successful result.
type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// ErrorResponse wraps every failure.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessResponse{Status: statusSuccess, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Status: statusError, Message: message})
}

// WriteError renders an error envelope. It is used by the server for
// router-level failures.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeError(w, status, message)
}

// writeServiceError maps a service error onto its HTTP status. Errors
// that carry no client message are logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := statusForKind(svcErr.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error("upstream failure",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	writeError(w, status, svcErr.Message)
}

func statusForKind(kind error) int {
	switch {
	case errors.Is(kind, services.ErrValidation), errors.Is(kind, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(kind, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, services.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
