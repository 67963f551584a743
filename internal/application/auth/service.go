package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bentopay/auth-api/internal/domain"
	"github.com/bentopay/auth-api/internal/infrastructure/dynamo"
	"github.com/bentopay/auth-api/internal/pkg/id"
	tokenpkg "github.com/bentopay/auth-api/internal/pkg/token"
	"github.com/bentopay/auth-api/internal/verify"
)

// SignInResult is the outcome of a sign-in attempt. When ChallengeSent is
// true, no access token is issued: an email-MFA code was delivered and the
// client must repeat the request with it.
type SignInResult struct {
	Account          *domain.Account `json:"auth"`
	AccessToken      string          `json:"access_token,omitempty"`
	WasTotpEnabled   bool            `json:"wasTotpEnabled"`
	WasEmailEnabled  bool            `json:"wasEmailEnabled"`
	MFAAuthenticated bool            `json:"isMFAAuthenticated"`
	ChallengeSent    bool            `json:"challenge_sent,omitempty"`
}

type Service interface {
	SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Account, error)
	SignIn(ctx context.Context, req domain.SignInRequest) (*SignInResult, error)
}

type accountStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByEmailOrPhone(ctx context.Context, username string) (*domain.Account, error)
	GetByUniqueID(ctx context.Context, uniqueID, country string) (*domain.Account, error)
	TxUpdate(accountID string, updates map[string]interface{}) (dynamo.TxItem, error)
}

type profileStore interface {
	TxPut(p *domain.Profile) (dynamo.TxItem, error)
}

type settingsStore interface {
	GetSecurityByAccount(ctx context.Context, accountID string) (*domain.SecuritySettings, error)
	TxPut(s *domain.Settings) (dynamo.TxItem, error)
	TxPutSecurity(s *domain.SecuritySettings) (dynamo.TxItem, error)
}

type otpStore interface {
	Get(ctx context.Context, profileID, purpose string) (*domain.OTP, error)
	Upsert(ctx context.Context, o *domain.OTP) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type jwtSigner interface {
	Sign(accountID, profileID, profileType, username string, mfaEnabled, mfaCompleted bool) (string, error)
}

type txFactory interface {
	NewTx() *dynamo.Tx
}

type service struct {
	accounts accountStore
	profiles profileStore
	settings settingsStore
	otps     otpStore
	mailer   mailer
	signer   jwtSigner
	txs      txFactory
	policy   verify.Policy
}

type ServiceDeps struct {
	AccountRepo  accountStore
	ProfileRepo  profileStore
	SettingsRepo settingsStore
	OTPRepo      otpStore
	Mailer       mailer
	JWTProvider  jwtSigner
	Txs          txFactory
	Policy       verify.Policy
}

func NewService(deps ServiceDeps) Service {
	return &service{
		accounts: deps.AccountRepo,
		profiles: deps.ProfileRepo,
		settings: deps.SettingsRepo,
		otps:     deps.OTPRepo,
		mailer:   deps.Mailer,
		signer:   deps.JWTProvider,
		txs:      deps.Txs,
		policy:   deps.Policy,
	}
}

// SignUp populates the onboarded account and creates its profile, settings
// and security settings in a single store transaction. A fresh email
// verification code is issued as part of the same commit.
func (s *service) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Account, error) {
	if _, err := s.accounts.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already exists: %w", domain.ErrConflict)
	}
	acct, err := s.accounts.GetByUniqueID(ctx, req.UniqueID, req.Country)
	if err != nil {
		return nil, fmt.Errorf("you have not onboarded: %w", domain.ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	emailCode, err := verify.NewCode(now)
	if err != nil {
		return nil, err
	}

	profileID := id.New()
	kind := domain.ProfileType(req.ProfileType)
	var keys *domain.APIKeys
	if kind == domain.ProfileBusiness {
		pub, sec, kerr := tokenpkg.NewAPIKeyPair()
		if kerr != nil {
			return nil, kerr
		}
		keys = &domain.APIKeys{PublicKey: pub, SecretKey: sec}
	}
	profile, err := domain.NewProfile(profileID, acct.AccountID, kind, req, keys, now)
	if err != nil {
		return nil, err
	}

	settings := &domain.Settings{
		SettingsID:    id.New(),
		AccountID:     acct.AccountID,
		ProfileID:     profileID,
		Appearance:    domain.Appearance{Mode: "light"},
		Notifications: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	security := &domain.SecuritySettings{
		SecurityID: id.New(),
		AccountID:  acct.AccountID,
		SettingsID: settings.SettingsID,
		MFA:        domain.MFASettings{WasTotpEnabled: false, WasEmailEnabled: false},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	codes := acct.Codes
	if codes == nil {
		codes = map[string]domain.VerificationCode{}
	}
	codes[domain.ChannelEmail] = emailCode

	updates := map[string]interface{}{
		"email":              req.Email,
		"password_hash":      string(hash),
		"profile_type":       string(kind),
		"profile_id":         profileID,
		"first_name":         req.FirstName,
		"last_name":          req.LastName,
		"onboarding_stage":   verify.StageSignedUp,
		"verification_codes": codes,
		"referral_code":      req.Referral,
	}
	if req.Mobile != nil {
		updates["mobile"] = req.Mobile
		updates["phone_number"] = req.Mobile.PhoneNumber
	}

	tx := s.txs.NewTx()
	acctItem, err := s.accounts.TxUpdate(acct.AccountID, updates)
	if err != nil {
		return nil, err
	}
	profileItem, err := s.profiles.TxPut(profile)
	if err != nil {
		return nil, err
	}
	settingsItem, err := s.settings.TxPut(settings)
	if err != nil {
		return nil, err
	}
	securityItem, err := s.settings.TxPutSecurity(security)
	if err != nil {
		return nil, err
	}
	tx.Add(acctItem, profileItem, settingsItem, securityItem)
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if err := s.mailer.SendEmail(req.Email, "Verify your email", "Your verification code: "+emailCode.Code); err != nil {
		slog.Warn("failed to send signup verification email", "account_id", acct.AccountID, "err", err)
	}

	acct.Email = req.Email
	acct.PasswordHash = string(hash)
	acct.ProfileType = kind
	acct.ProfileID = profileID
	acct.FirstName = req.FirstName
	acct.LastName = req.LastName
	acct.Stage = verify.StageSignedUp
	acct.Codes = codes
	acct.ReferralCode = req.Referral
	if req.Mobile != nil {
		acct.SetMobile(req.Mobile)
	}
	return acct, nil
}

// SignIn authenticates by email or phone and applies the MFA decision. With
// email MFA enabled and no valid code submitted, a fresh OTP is upserted and
// the sign-in short-circuits with a challenge instead of a token.
func (s *service) SignIn(ctx context.Context, req domain.SignInRequest) (*SignInResult, error) {
	acct, err := s.accounts.GetByEmailOrPhone(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrBadRequest)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid password: %w", domain.ErrUnauthorized)
	}

	security, err := s.settings.GetSecurityByAccount(ctx, acct.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user settings: %w", domain.ErrNotFound)
	}

	var stored *domain.OTP
	if verify.MFAMode(security.MFA) == verify.ModeEmail {
		if o, oerr := s.otps.Get(ctx, acct.ProfileID, domain.OTPPurposeEmailMFA); oerr == nil {
			stored = o
		} else if !errors.Is(oerr, domain.ErrNotFound) {
			return nil, oerr
		}
	}

	now := time.Now().UTC()
	result := &SignInResult{
		Account:         acct,
		WasTotpEnabled:  security.MFA.WasTotpEnabled,
		WasEmailEnabled: security.MFA.WasEmailEnabled,
	}

	switch s.policy.CheckMFA(security.MFA, security.TOTPSecret, stored, req.MFACode, now) {
	case verify.Rejected:
		return nil, fmt.Errorf("invalid MFA code: %w", domain.ErrUnauthorized)
	case verify.ChallengeEmail:
		code, cerr := verify.NewCode(now)
		if cerr != nil {
			return nil, cerr
		}
		otp := &domain.OTP{
			OTPID:     id.New(),
			AccountID: acct.AccountID,
			ProfileID: acct.ProfileID,
			Purpose:   domain.OTPPurposeEmailMFA,
			Email:     acct.Email,
			Code:      code.Code,
			ExpiresAt: code.ExpiresAt,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.otps.Upsert(ctx, otp); err != nil {
			return nil, err
		}
		if err := s.mailer.SendEmail(acct.Email, "Your sign-in code", "Your MFA code: "+code.Code); err != nil {
			slog.Warn("failed to send MFA email", "account_id", acct.AccountID, "err", err)
		}
		result.ChallengeSent = true
		return result, nil
	case verify.Satisfied:
		result.MFAAuthenticated = true
	}

	mfaEnabled := security.MFA.WasTotpEnabled || security.MFA.WasEmailEnabled
	token, err := s.signer.Sign(acct.AccountID, acct.ProfileID, string(acct.ProfileType), acct.Email, mfaEnabled, result.MFAAuthenticated)
	if err != nil {
		return nil, err
	}
	result.AccessToken = token
	return result, nil
}
