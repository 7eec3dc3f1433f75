// Package respond writes the JSON envelope every endpoint returns:
// {"success": bool, "data"?: any, "error"?: string}. Error messages are
// sanitized so internal details never reach the client.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"brazucas-cork/internal/domain/entity"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// genericMessage replaces any message that is not safe to show.
const genericMessage = "internal server error"

// JSON writes v as JSON with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// OK writes a successful envelope carrying data.
func OK(w http.ResponseWriter, code int, data any) {
	JSON(w, code, Envelope{Success: true, Data: data})
}

// Error writes a failed envelope with err's message, unfiltered.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, Envelope{Error: err.Error()})
}

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Code
	case errors.Is(err, entity.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// FromError writes err with the status StatusFor derives.
func FromError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		SafeErrorV2(w, appErr.Code, err)
		return
	}
	SafeError(w, StatusFor(err), err)
}

// safeKeywords mark messages produced by input checks.
var safeKeywords = []string{
	"required",
	"invalid",
	"not found",
	"already exists",
	"must be",
	"cannot be",
	"too long",
	"too short",
}

func isSafe(code int, err error) bool {
	if code >= 500 {
		return false
	}
	if errors.Is(err, entity.ErrValidationFailed) ||
		errors.Is(err, entity.ErrUnauthorized) ||
		errors.Is(err, entity.ErrForbidden) ||
		errors.Is(err, entity.ErrNotFound) ||
		errors.Is(err, entity.ErrConflict) {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, kw := range safeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SafeError writes err when its message is safe for clients. Anything else,
// and every 5xx, is logged in sanitized form and replaced by a generic message.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	if isSafe(code, err) {
		JSON(w, code, Envelope{Error: err.Error()})
		return
	}
	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, Envelope{Error: genericMessage})
}

// AppError is an error type that carries a user-facing message.
type AppError struct {
	UserMsg string // Message to display to users
	Err     error  // Internal error (logged for debugging)
	Code    int    // HTTP status code
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given parameters.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// SafeErrorV2 writes the user message of an AppError and logs its cause.
// Other errors fall back to SafeError.
func SafeErrorV2(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Warn("application error",
				slog.String("status", http.StatusText(appErr.Code)),
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.Code, Envelope{Error: appErr.UserMsg})
		return
	}

	SafeError(w, code, err)
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
// Failures are AppErrors carrying a 400.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return NewAppError(http.StatusBadRequest, "invalid JSON body", err)
	}
	return nil
}
