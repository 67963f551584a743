package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bentopay/auth-api/internal/domain"
	"github.com/bentopay/auth-api/internal/transport/http/middleware"
	"github.com/bentopay/auth-api/internal/verify"
)

// Envelope is the uniform response wrapper. Status is "success" or "error",
// Code repeats the HTTP status, Action names the operation for clients and
// the audit log.
type Envelope struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Action  string      `json:"action"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeSuccess(w http.ResponseWriter, r *http.Request, code int, action, message string, data interface{}) {
	writeJSON(w, code, Envelope{
		Status:  "success",
		Code:    code,
		Action:  action,
		Message: message,
		Data:    data,
	})
	audit(r, action, code, "")
}

// writeFailure maps the error chain to an HTTP status and emits the audit
// entry. Internal failures keep their detail out of the message field.
func writeFailure(w http.ResponseWriter, r *http.Request, action string, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, code, Envelope{
		Status: "error",
		Code:   code,
		Action: action,
		Error:  msg,
	})
	audit(r, action, code, err.Error())
}

func writeValidationError(w http.ResponseWriter, r *http.Request, action string, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, Envelope{
		Status: "error",
		Code:   http.StatusUnprocessableEntity,
		Action: action,
		Error:  err.Error(),
	})
	audit(r, action, http.StatusUnprocessableEntity, err.Error())
}

func writeBadBody(w http.ResponseWriter, r *http.Request, action string) {
	writeJSON(w, http.StatusBadRequest, Envelope{
		Status: "error",
		Code:   http.StatusBadRequest,
		Action: action,
		Error:  "invalid request body",
	})
	audit(r, action, http.StatusBadRequest, "invalid request body")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, verify.ErrAlreadyVerified),
		errors.Is(err, verify.ErrNoCode),
		errors.Is(err, verify.ErrCodeMismatch),
		errors.Is(err, verify.ErrCodeExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// audit writes the one structured log entry per handled request.
func audit(r *http.Request, action string, code int, errMsg string) {
	attrs := []any{"action", action, "status", code, "path", r.URL.Path}
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		attrs = append(attrs,
			"role", claims.ProfileType,
			"auth_id", claims.AccountID,
			"profile_id", claims.ProfileID,
		)
	}
	if errMsg != "" {
		attrs = append(attrs, "error", errMsg)
		slog.Warn("request failed", attrs...)
		return
	}
	slog.Info("request completed", attrs...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
