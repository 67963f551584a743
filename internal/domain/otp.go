package domain

import "time"

// OTP purposes. EmailMFA codes are upserted per (profile, purpose) on each
// sign-in challenge; only the latest code is valid.
const (
	OTPPurposeEmailMFA = "email_mfa"
	OTPPurposeTotpMFA  = "totp_mfa"
)

// OTP is a single outstanding one-time code scoped by profile and purpose.
type OTP struct {
	OTPID     string    `json:"id" dynamodbav:"otp_id"`
	AccountID string    `json:"account_id" dynamodbav:"account_id"`
	ProfileID string    `json:"profile_id" dynamodbav:"profile_id"`
	Purpose   string    `json:"purpose" dynamodbav:"purpose"`
	Email     string    `json:"email,omitempty" dynamodbav:"email"`
	Code      string    `json:"-" dynamodbav:"code"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"`
	Verified  bool      `json:"verified" dynamodbav:"verified"`
	Deleted   bool      `json:"deleted" dynamodbav:"deleted"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}
