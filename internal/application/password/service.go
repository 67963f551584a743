package password

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bentopay/auth-api/internal/domain"
	"github.com/bentopay/auth-api/internal/verify"
)

type Service interface {
	Forgot(ctx context.Context, req domain.ForgotPasswordRequest) error
	Reset(ctx context.Context, req domain.ResetPasswordRequest) error
	Change(ctx context.Context, accountID string, req domain.ChangePasswordRequest) error
}

type accountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmailOrPhone(ctx context.Context, username string) (*domain.Account, error)
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

// Forgot issues a reset code for the account matching the email or phone,
// overwriting any outstanding one, and delivers it over the matching channel.
func (s *service) Forgot(ctx context.Context, req domain.ForgotPasswordRequest) error {
	username := req.Email
	if username == "" {
		username = req.PhoneNumber
	}
	if username == "" {
		return fmt.Errorf("email or phone_number required: %w", domain.ErrBadRequest)
	}
	acct, err := s.accounts.GetByEmailOrPhone(ctx, username)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrBadRequest)
	}

	code, err := verify.NewCode(time.Now().UTC())
	if err != nil {
		return err
	}
	codes := acct.Codes
	if codes == nil {
		codes = map[string]domain.VerificationCode{}
	}
	codes[domain.ChannelResetPassword] = code

	if err := s.accounts.Update(ctx, acct.AccountID, map[string]interface{}{
		"verification_codes": codes,
	}); err != nil {
		return err
	}

	if req.Email != "" {
		if err := s.mailer.SendEmail(acct.Email, "Password reset code", "Your reset code: "+code.Code); err != nil {
			slog.Warn("failed to send reset email", "account_id", acct.AccountID, "err", err)
		}
		return nil
	}
	if err := s.sms.SendSMS(ctx, acct.PhoneNumber, "Your reset code: "+code.Code); err != nil {
		slog.Warn("failed to send reset SMS", "account_id", acct.AccountID, "err", err)
	}
	return nil
}

// Reset consumes an unexpired reset code and replaces the password hash.
// The consumed code is cleared in the same write.
func (s *service) Reset(ctx context.Context, req domain.ResetPasswordRequest) error {
	username := req.Email
	if username == "" {
		username = req.PhoneNumber
	}
	acct, err := s.accounts.GetByEmailOrPhone(ctx, username)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrBadRequest)
	}

	stored := acct.PendingCode(domain.ChannelResetPassword)
	if err := verify.CheckResetCode(stored, req.VerificationCode, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: %w", err, domain.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	codes := acct.Codes
	delete(codes, domain.ChannelResetPassword)

	return s.accounts.Update(ctx, acct.AccountID, map[string]interface{}{
		"password_hash":      string(hash),
		"verification_codes": codes,
	})
}

// Change replaces the password for an authenticated account after checking
// the current one.
func (s *service) Change(ctx context.Context, accountID string, req domain.ChangePasswordRequest) error {
	acct, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.accounts.Update(ctx, accountID, map[string]interface{}{
		"password_hash": string(hash),
	})
}
