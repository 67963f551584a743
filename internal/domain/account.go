package domain

import "time"

// Verification channels tracked on an account. Each channel has at most one
// pending code and a boolean flag that, once true, is never reverted.
const (
	ChannelEmail         = "email"
	ChannelMobile        = "mobile"
	ChannelUniqueID      = "unique_id"
	ChannelResetPassword = "reset_password"
)

// KYC provider paths assigned at onboarding.
const (
	KYCPrembly = "prembly" // national-ID (NIN) check, Nigeria
	KYCPlaid   = "plaid"   // Plaid identity verification, everyone else
)

const CountryNigeria = "NG"

// Mobile is a phone number plus its country ISO code.
type Mobile struct {
	PhoneNumber string `json:"phone_number" dynamodbav:"phone_number"`
	ISOCode     string `json:"iso_code" dynamodbav:"iso_code"`
}

// VerificationCode is a pending one-time code for a single channel.
// Issuing a new code for the channel overwrites the previous one.
type VerificationCode struct {
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
}

// Account is the authentication record, one per onboarded identity.
// Created at onboarding (unique-ID reservation), populated at sign-up,
// mutated by every verification and password flow. Soft-delete only.
type Account struct {
	AccountID     string                      `json:"id" dynamodbav:"account_id"`
	UniqueID      string                      `json:"unique_id" dynamodbav:"unique_id"`
	Country       string                      `json:"country" dynamodbav:"country"`
	Email         string                      `json:"email" dynamodbav:"email"`
	Mobile        *Mobile                     `json:"mobile" dynamodbav:"mobile"`
	PhoneNumber   string                      `json:"-" dynamodbav:"phone_number"` // denormalized from Mobile for the phone GSI
	PasswordHash  string                      `json:"-" dynamodbav:"password_hash"`
	ProfileType   ProfileType                 `json:"profile_type" dynamodbav:"profile_type"`
	ProfileID     string                      `json:"profile_id" dynamodbav:"profile_id"`
	FirstName     string                      `json:"first_name" dynamodbav:"first_name"`
	LastName      string                      `json:"last_name" dynamodbav:"last_name"`
	DOB           string                      `json:"dob,omitempty" dynamodbav:"dob"` // YYYY-MM-DD
	Verifications map[string]bool             `json:"verifications" dynamodbav:"verifications"`
	Codes         map[string]VerificationCode `json:"-" dynamodbav:"verification_codes"`
	Stage         string                      `json:"onboarding_stage" dynamodbav:"onboarding_stage"`
	KYCType       string                      `json:"kyc_type" dynamodbav:"kyc_type"`
	KYCReference  string                      `json:"kyc_reference,omitempty" dynamodbav:"kyc_reference"`
	ReferralCode  string                      `json:"referral_code,omitempty" dynamodbav:"referral_code"`
	Deleted       bool                        `json:"deleted" dynamodbav:"deleted"`
	DeletedAt     *time.Time                  `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt     time.Time                   `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time                   `json:"updated" dynamodbav:"updated_at"`
}

// Verified reports whether the given channel's flag is set.
func (a *Account) Verified(channel string) bool {
	return a.Verifications[channel]
}

// SetMobile updates the nested mobile record and the denormalized
// phone_number attribute together.
func (a *Account) SetMobile(m *Mobile) {
	a.Mobile = m
	if m != nil {
		a.PhoneNumber = m.PhoneNumber
	} else {
		a.PhoneNumber = ""
	}
}

// PendingCode returns the outstanding code for a channel, or nil.
func (a *Account) PendingCode(channel string) *VerificationCode {
	if a.Codes == nil {
		return nil
	}
	c, ok := a.Codes[channel]
	if !ok {
		return nil
	}
	return &c
}

type OnboardRequest struct {
	UniqueID    string `json:"unique_id" validate:"required"`
	Country     string `json:"country" validate:"required,iso3166_1_alpha2"`
	ProfileType string `json:"profile_type" validate:"required,oneof=personal business admin"`
	Reference   string `json:"reference"`
}

type SignUpRequest struct {
	UniqueID     string  `json:"unique_id" validate:"required"`
	Country      string  `json:"country" validate:"required,iso3166_1_alpha2"`
	ProfileType  string  `json:"profile_type" validate:"required,oneof=personal business admin"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8,max=72"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	BusinessName string  `json:"business_name" validate:"required_if=ProfileType business"`
	Mobile       *Mobile `json:"mobile"`
	Referral     string  `json:"referral"`
}

type SignInRequest struct {
	Username string `json:"username" validate:"required"` // email or phone number
	Password string `json:"password" validate:"required,min=8,max=72"`
	MFACode  string `json:"mfa_code"`
}

type ForgotPasswordRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number"`
}

type ResetPasswordRequest struct {
	Email            string `json:"email" validate:"omitempty,email"`
	PhoneNumber      string `json:"phone_number"`
	VerificationCode string `json:"verification_code" validate:"required"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
}

type SendVerificationRequest struct {
	Type   string  `json:"type" validate:"required,oneof=email mobile"`
	Email  string  `json:"email" validate:"omitempty,email"`
	Mobile *Mobile `json:"mobile"`
}

type VerifyEmailRequest struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verification_code" validate:"required"`
}

type VerifyMobileRequest struct {
	PhoneNumber      string `json:"phone_number" validate:"required"`
	VerificationCode string `json:"verification_code" validate:"required"`
}
