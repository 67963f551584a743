package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bentopay/auth-api/internal/domain"
	"github.com/bentopay/auth-api/internal/verify"
)

type Service interface {
	Send(ctx context.Context, accountID string, req domain.SendVerificationRequest) error
	VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) (*domain.Account, error)
	VerifyMobile(ctx context.Context, req domain.VerifyMobileRequest) (*domain.Account, error)
}

type accountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.Account, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	accounts accountStore
	mailer   mailer
	sms      smsSender
}

type ServiceDeps struct {
	AccountRepo accountStore
	Mailer      mailer
	SMSSender   smsSender
}

func NewService(deps ServiceDeps) Service {
	return &service{accounts: deps.AccountRepo, mailer: deps.Mailer, sms: deps.SMSSender}
}

// Send issues a fresh code for the requested channel, overwriting any
// outstanding one. Already-verified channels reject before anything is
// written. A mobile request for a number held by another account conflicts.
func (s *service) Send(ctx context.Context, accountID string, req domain.SendVerificationRequest) error {
	acct, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	channel := req.Type // "email" | "mobile"
	if acct.Verified(channel) {
		return fmt.Errorf("%s is already verified: %w", channel, domain.ErrBadRequest)
	}

	updates := map[string]interface{}{}
	if channel == domain.ChannelMobile {
		if req.Mobile == nil {
			return fmt.Errorf("mobile required: %w", domain.ErrBadRequest)
		}
		if other, oerr := s.accounts.GetByPhone(ctx, req.Mobile.PhoneNumber); oerr == nil && other.AccountID != acct.AccountID {
			return fmt.Errorf("mobile number is already associated with another account: %w", domain.ErrConflict)
		}
		if acct.Mobile == nil || acct.Mobile.PhoneNumber == "" {
			acct.SetMobile(req.Mobile)
			updates["mobile"] = req.Mobile
			updates["phone_number"] = req.Mobile.PhoneNumber
		}
	}

	code, err := verify.NewCode(time.Now().UTC())
	if err != nil {
		return err
	}
	codes := acct.Codes
	if codes == nil {
		codes = map[string]domain.VerificationCode{}
	}
	codes[channel] = code
	updates["verification_codes"] = codes

	if err := s.accounts.Update(ctx, acct.AccountID, updates); err != nil {
		return err
	}

	switch channel {
	case domain.ChannelEmail:
		to := acct.Email
		if req.Email != "" {
			to = req.Email
		}
		if err := s.mailer.SendEmail(to, "Your verification code", "Your verification code: "+code.Code); err != nil {
			slog.Warn("failed to send verification email", "account_id", acct.AccountID, "err", err)
		}
	case domain.ChannelMobile:
		if err := s.sms.SendSMS(ctx, acct.PhoneNumber, "Your verification code: "+code.Code); err != nil {
			slog.Warn("failed to send verification SMS", "account_id", acct.AccountID, "err", err)
		}
	}
	return nil
}

// VerifyEmail consumes the pending email code: flag flips to true, the code
// is cleared, and the onboarding stage advances to VERIFICATION.
func (s *service) VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) (*domain.Account, error) {
	acct, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return s.consume(ctx, acct, domain.ChannelEmail, req.VerificationCode)
}

// VerifyMobile is VerifyEmail for the mobile channel, looked up by phone.
func (s *service) VerifyMobile(ctx context.Context, req domain.VerifyMobileRequest) (*domain.Account, error) {
	acct, err := s.accounts.GetByPhone(ctx, req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return s.consume(ctx, acct, domain.ChannelMobile, req.VerificationCode)
}

func (s *service) consume(ctx context.Context, acct *domain.Account, channel, submitted string) (*domain.Account, error) {
	stored := acct.PendingCode(channel)
	if err := verify.CheckCode(acct.Verified(channel), stored, submitted, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("%w: %w", err, domain.ErrUnauthorized)
	}

	verifications := acct.Verifications
	if verifications == nil {
		verifications = map[string]bool{}
	}
	verifications[channel] = true
	codes := acct.Codes
	delete(codes, channel)
	stage := verify.AdvanceStage(acct.Stage, verify.StageVerification)

	if err := s.accounts.Update(ctx, acct.AccountID, map[string]interface{}{
		"verifications":      verifications,
		"verification_codes": codes,
		"onboarding_stage":   stage,
	}); err != nil {
		return nil, err
	}

	acct.Verifications = verifications
	acct.Codes = codes
	acct.Stage = stage
	return acct, nil
}
