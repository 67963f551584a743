package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bentopay/auth-api/internal/application/verification"
	"github.com/bentopay/auth-api/internal/domain"
	"github.com/bentopay/auth-api/internal/pkg/validate"
	"github.com/bentopay/auth-api/internal/transport/http/middleware"
)

// VerificationHandler handles code issuance and the email/mobile verify
// endpoints. The verify endpoints are GETs carrying their parameters in the
// query string so they work from emailed links.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	const action = "send_verification"
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, r, action, domain.ErrUnauthorized)
		return
	}
	var req domain.SendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, r, action)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, action, err)
		return
	}
	if err := h.svc.Send(r.Context(), claims.AccountID, req); err != nil {
		writeFailure(w, r, action, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, action, "verification code sent", nil)
}

func (h *VerificationHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	const action = "verify_email"
	req := domain.VerifyEmailRequest{
		Email:            r.URL.Query().Get("email"),
		VerificationCode: r.URL.Query().Get("verification_code"),
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, action, err)
		return
	}
	acct, err := h.svc.VerifyEmail(r.Context(), req)
	if err != nil {
		writeFailure(w, r, action, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, action, "email verified", acct)
}

func (h *VerificationHandler) VerifyMobile(w http.ResponseWriter, r *http.Request) {
	const action = "verify_mobile"
	req := domain.VerifyMobileRequest{
		PhoneNumber:      r.URL.Query().Get("phone_number"),
		VerificationCode: r.URL.Query().Get("verification_code"),
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, r, action, err)
		return
	}
	acct, err := h.svc.VerifyMobile(r.Context(), req)
	if err != nil {
		writeFailure(w, r, action, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, action, "mobile verified", acct)
}
