package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bentopay/auth-api/internal/application/auth"
	"github.com/bentopay/auth-api/internal/domain"
	"github.com/bentopay/auth-api/internal/pkg/validate"
)

// AuthHandler handles the sign-up and sign-in endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	const action = "sign_up"
	var req domain.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, r, action)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, action, err)
		return
	}
	acct, err := h.svc.SignUp(r.Context(), req)
	if err != nil {
		writeFailure(w, r, action, err)
		return
	}
	writeSuccess(w, r, http.StatusCreated, action, "account created", acct)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	const action = "sign_in"
	var req domain.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, r, action)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, action, err)
		return
	}
	result, err := h.svc.SignIn(r.Context(), req)
	if err != nil {
		writeFailure(w, r, action, err)
		return
	}
	if result.ChallengeSent {
		writeSuccess(w, r, http.StatusOK, action, "verification code sent", result)
		return
	}
	writeSuccess(w, r, http.StatusOK, action, "signed in", result)
}
