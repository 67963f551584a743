package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bentopay/auth-api/internal/application/onboarding"
	"github.com/bentopay/auth-api/internal/domain"
)

type mockOnboardingService struct{ mock.Mock }

func (m *mockOnboardingService) Onboard(ctx context.Context, req domain.OnboardRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOnboardingService) BentoOnboard(ctx context.Context, req domain.OnboardRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockOnboardingService) VerifyPlaidIDV(ctx context.Context, sessionID string) (*onboarding.PlaidVerification, error) {
	args := m.Called(ctx, sessionID)
	if r, _ := args.Get(0).(*onboarding.PlaidVerification); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestOnboardHandler_Created(t *testing.T) {
	svc := &mockOnboardingService{}
	svc.On("Onboard", mock.Anything, domain.OnboardRequest{
		UniqueID: "12345678901", Country: "NG", ProfileType: "personal",
	}).Return(&domain.Account{AccountID: "acc1", UniqueID: "12345678901"}, nil)
	h := NewOnboardingHandler(svc)

	rr := postJSON(t, h.Onboard, "/onboard", domain.OnboardRequest{
		UniqueID: "12345678901", Country: "NG", ProfileType: "personal",
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "onboarded", env.Message)
	svc.AssertExpectations(t)
}

func TestOnboardHandler_Conflict(t *testing.T) {
	svc := &mockOnboardingService{}
	svc.On("Onboard", mock.Anything, mock.Anything).Return(nil, domain.ErrConflict)
	h := NewOnboardingHandler(svc)

	rr := postJSON(t, h.Onboard, "/onboard", domain.OnboardRequest{
		UniqueID: "12345678901", Country: "NG", ProfileType: "personal",
	})

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestOnboardHandler_ValidationError(t *testing.T) {
	h := NewOnboardingHandler(&mockOnboardingService{})

	rr := postJSON(t, h.Onboard, "/onboard", domain.OnboardRequest{
		UniqueID: "12345678901", Country: "Nigeria", ProfileType: "personal",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestBentoOnboardHandler_Accepted(t *testing.T) {
	svc := &mockOnboardingService{}
	svc.On("BentoOnboard", mock.Anything, mock.Anything).Return(nil)
	h := NewOnboardingHandler(svc)

	rr := postJSON(t, h.BentoOnboard, "/bento_onboard", domain.OnboardRequest{
		UniqueID: "a@b.com", Country: "US", ProfileType: "personal",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "accepted", env.Message)
}

func TestVerifyPlaidIDVHandler_Relay(t *testing.T) {
	svc := &mockOnboardingService{}
	svc.On("VerifyPlaidIDV", mock.Anything, "idv-session-1").Return(&onboarding.PlaidVerification{
		KYCType: domain.KYCPlaid, KYCReference: "idv-session-1", Email: "a@b.com",
	}, nil)
	h := NewOnboardingHandler(svc)

	r := chi.NewRouter()
	r.Get("/verify_plaid_idv/{password}", h.VerifyPlaidIDV)

	req := httptest.NewRequest(http.MethodGet, "/verify_plaid_idv/idv-session-1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "identity verified", env.Message)
	svc.AssertExpectations(t)
}

func TestVerifyPlaidIDVHandler_ProviderRejects(t *testing.T) {
	svc := &mockOnboardingService{}
	svc.On("VerifyPlaidIDV", mock.Anything, "idv-session-1").Return(nil, domain.ErrUnauthorized)
	h := NewOnboardingHandler(svc)

	r := chi.NewRouter()
	r.Get("/verify_plaid_idv/{password}", h.VerifyPlaidIDV)

	req := httptest.NewRequest(http.MethodGet, "/verify_plaid_idv/idv-session-1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
