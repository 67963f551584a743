package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bentopay/auth-api/internal/application/password"
	"github.com/bentopay/auth-api/internal/domain"
	"github.com/bentopay/auth-api/internal/pkg/validate"
	"github.com/bentopay/auth-api/internal/transport/http/middleware"
)

// PasswordHandler handles the forgot/reset/change password endpoints.
type PasswordHandler struct {
	svc password.Service
}

func NewPasswordHandler(svc password.Service) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	const action = "forgot_password"
	var req domain.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, r, action)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, action, err)
		return
	}
	if err := h.svc.Forgot(r.Context(), req); err != nil {
		writeFailure(w, r, action, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, action, "reset code sent", nil)
}

func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	const action = "reset_password"
	var req domain.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, r, action)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, action, err)
		return
	}
	if err := h.svc.Reset(r.Context(), req); err != nil {
		writeFailure(w, r, action, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, action, "password reset", nil)
}

func (h *PasswordHandler) Change(w http.ResponseWriter, r *http.Request) {
	const action = "change_password"
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, r, action, domain.ErrUnauthorized)
		return
	}
	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, r, action)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, action, err)
		return
	}
	if err := h.svc.Change(r.Context(), claims.AccountID, req); err != nil {
		writeFailure(w, r, action, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, action, "password changed", nil)
}
