// Package verify holds the verification and MFA decision logic. Everything in
// here is pure: callers load the account state, ask for a decision, and commit
// the resulting mutations themselves.
package verify

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/bentopay/auth-api/internal/domain"
)

// CodeTTL is how long an issued verification code stays valid.
const CodeTTL = 15 * time.Minute

// Typed rejections for expected business-rule violations. Callers map these
// to HTTP statuses; they are never wrapped around infrastructure errors.
var (
	ErrAlreadyVerified = errors.New("already verified")
	ErrNoCode          = errors.New("no verification code issued")
	ErrCodeMismatch    = errors.New("invalid verification code")
	ErrCodeExpired     = errors.New("verification code has expired")
)

// NewCode issues a fresh 6-digit numeric code expiring CodeTTL from now.
// Issuing replaces any prior unconsumed code for the same channel.
func NewCode(now time.Time) (domain.VerificationCode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return domain.VerificationCode{}, fmt.Errorf("generate code: %w", err)
	}
	return domain.VerificationCode{
		Code:      fmt.Sprintf("%06d", n.Int64()),
		ExpiresAt: now.Add(CodeTTL).Unix(),
	}, nil
}

// CheckCode decides whether a submitted code consumes the stored one.
//
// Order matters: an already-verified channel rejects regardless of the code,
// a mismatched code rejects before the expiry is looked at, and a code one
// second past its expiration is rejected.
func CheckCode(alreadyVerified bool, stored *domain.VerificationCode, submitted string, now time.Time) error {
	if alreadyVerified {
		return ErrAlreadyVerified
	}
	if stored == nil || stored.Code == "" {
		return ErrNoCode
	}
	if stored.Code != submitted {
		return ErrCodeMismatch
	}
	if now.Unix() > stored.ExpiresAt {
		return ErrCodeExpired
	}
	return nil
}

// CheckResetCode is CheckCode for the password-reset channel, which has no
// verified flag to consult.
func CheckResetCode(stored *domain.VerificationCode, submitted string, now time.Time) error {
	return CheckCode(false, stored, submitted, now)
}
