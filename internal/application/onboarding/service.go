package onboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/bentopay/auth-api/internal/domain"
	"github.com/bentopay/auth-api/internal/infrastructure/kyc"
	"github.com/bentopay/auth-api/internal/pkg/id"
	"github.com/bentopay/auth-api/internal/verify"
)

// PlaidVerification is the relayed IDV outcome: the identity fields the
// provider attested plus the verification flags they satisfy.
type PlaidVerification struct {
	KYCType       string          `json:"kyc_type"`
	KYCReference  string          `json:"kyc_reference"`
	Email         string          `json:"email"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	DOB           string          `json:"dob"`
	Mobile        *domain.Mobile  `json:"mobile"`
	Verifications map[string]bool `json:"verifications"`
}

type Service interface {
	Onboard(ctx context.Context, req domain.OnboardRequest) (*domain.Account, error)
	BentoOnboard(ctx context.Context, req domain.OnboardRequest) error
	VerifyPlaidIDV(ctx context.Context, sessionID string) (*PlaidVerification, error)
}

type accountStore interface {
	GetByUniqueID(ctx context.Context, uniqueID, country string) (*domain.Account, error)
	Put(ctx context.Context, a *domain.Account) error
}

type ninChecker interface {
	CheckNIN(ctx context.Context, nin string) (*kyc.NINResult, error)
}

type plaidClient interface {
	GetIdentityVerification(ctx context.Context, sessionID string) (*kyc.IDVResult, error)
}

type service struct {
	accounts accountStore
	verifyme ninChecker
	plaid    plaidClient
}

type ServiceDeps struct {
	AccountRepo    accountStore
	VerifyMeClient ninChecker
	PlaidClient    plaidClient
}

func NewService(deps ServiceDeps) Service {
	return &service{accounts: deps.AccountRepo, verifyme: deps.VerifyMeClient, plaid: deps.PlaidClient}
}

// Onboard reserves the unique ID and selects the KYC path by country:
// Nigeria gets the national-ID (NIN) check, everyone else the Plaid path
// keyed by email. Reserving an already-onboarded ID conflicts.
func (s *service) Onboard(ctx context.Context, req domain.OnboardRequest) (*domain.Account, error) {
	if _, err := s.accounts.GetByUniqueID(ctx, req.UniqueID, req.Country); err == nil {
		return nil, fmt.Errorf("user already onboarded: %w", domain.ErrConflict)
	}

	now := time.Now().UTC()
	acct := &domain.Account{
		AccountID:     id.New(),
		UniqueID:      req.UniqueID,
		Country:       req.Country,
		ProfileType:   domain.ProfileType(req.ProfileType),
		Verifications: map[string]bool{},
		Codes:         map[string]domain.VerificationCode{},
		Stage:         verify.StageOnboarding,
		ReferralCode:  req.Reference,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if req.Country == domain.CountryNigeria {
		// Unique ID is the NIN; the provider lookup attests it.
		result, err := s.verifyme.CheckNIN(ctx, req.UniqueID)
		if err != nil {
			return nil, fmt.Errorf("national ID verification failed: %w", domain.ErrUnauthorized)
		}
		acct.KYCType = domain.KYCPrembly
		acct.FirstName = result.FirstName
		acct.LastName = result.LastName
		acct.DOB = result.BirthDate
		acct.Verifications[domain.ChannelUniqueID] = true
	} else {
		// Unique ID is the email for everyone outside Nigeria.
		acct.Email = req.UniqueID
		acct.KYCType = domain.KYCPlaid
		acct.Verifications[domain.ChannelUniqueID] = true
	}

	if err := s.accounts.Put(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// BentoOnboard is the alternate onboarding entry. The upstream flow accepts
// and acknowledges the request without side effects.
func (s *service) BentoOnboard(ctx context.Context, req domain.OnboardRequest) error {
	return nil
}

// VerifyPlaidIDV relays the provider's identity-verification result without
// touching any account record. The caller decides what to do with it.
func (s *service) VerifyPlaidIDV(ctx context.Context, sessionID string) (*PlaidVerification, error) {
	data, err := s.plaid.GetIdentityVerification(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if data.Status != "success" {
		return nil, fmt.Errorf("failed to verify plaid idv: %w", domain.ErrUnauthorized)
	}

	var mobile *domain.Mobile
	if data.User.PhoneNumber != "" {
		mobile = &domain.Mobile{
			PhoneNumber: data.User.PhoneNumber,
			ISOCode:     data.User.Address.Country,
		}
	}
	return &PlaidVerification{
		KYCType:      domain.KYCPlaid,
		KYCReference: data.ID,
		Email:        data.User.EmailAddress,
		FirstName:    data.User.Name.GivenName,
		LastName:     data.User.Name.FamilyName,
		DOB:          data.User.DateOfBirth,
		Mobile:       mobile,
		Verifications: map[string]bool{
			domain.ChannelUniqueID: true,
			domain.ChannelMobile:   true,
		},
	}, nil
}
