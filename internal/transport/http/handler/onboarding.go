package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bentopay/auth-api/internal/application/onboarding"
	"github.com/bentopay/auth-api/internal/domain"
	"github.com/bentopay/auth-api/internal/pkg/validate"
)

// OnboardingHandler handles unique-ID reservation and the KYC endpoints.
type OnboardingHandler struct {
	svc onboarding.Service
}

func NewOnboardingHandler(svc onboarding.Service) *OnboardingHandler {
	return &OnboardingHandler{svc: svc}
}

func (h *OnboardingHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	const action = "onboard"
	var req domain.OnboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, r, action)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, action, err)
		return
	}
	acct, err := h.svc.Onboard(r.Context(), req)
	if err != nil {
		writeFailure(w, r, action, err)
		return
	}
	writeSuccess(w, r, http.StatusCreated, action, "onboarded", acct)
}

func (h *OnboardingHandler) BentoOnboard(w http.ResponseWriter, r *http.Request) {
	const action = "bento_onboard"
	var req domain.OnboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, r, action)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, action, err)
		return
	}
	if err := h.svc.BentoOnboard(r.Context(), req); err != nil {
		writeFailure(w, r, action, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, action, "accepted", nil)
}

// VerifyPlaidIDV relays the identity-verification session named by the path
// parameter. The parameter carries the provider session id.
func (h *OnboardingHandler) VerifyPlaidIDV(w http.ResponseWriter, r *http.Request) {
	const action = "verify_plaid_idv"
	sessionID := chi.URLParam(r, "password")
	if sessionID == "" {
		writeFailure(w, r, action, domain.ErrBadRequest)
		return
	}
	result, err := h.svc.VerifyPlaidIDV(r.Context(), sessionID)
	if err != nil {
		writeFailure(w, r, action, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, action, "identity verified", result)
}
