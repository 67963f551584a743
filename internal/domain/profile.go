package domain

import (
	"fmt"
	"time"
)

// ProfileType is the closed set of profile kinds.
type ProfileType string

const (
	ProfilePersonal ProfileType = "personal"
	ProfileBusiness ProfileType = "business"
	ProfileAdmin    ProfileType = "admin"
)

// APIKeys is the key pair issued to business profiles.
type APIKeys struct {
	PublicKey string `json:"public_key" dynamodbav:"public_key"`
	SecretKey string `json:"-" dynamodbav:"secret_key"`
}

// Profile is the one-to-one companion record of an account. All three kinds
// share one table; business profiles additionally carry an API key pair.
type Profile struct {
	ProfileID    string      `json:"id" dynamodbav:"profile_id"`
	AccountID    string      `json:"account_id" dynamodbav:"account_id"`
	Type         ProfileType `json:"type" dynamodbav:"type"`
	FirstName    string      `json:"first_name,omitempty" dynamodbav:"first_name"`
	LastName     string      `json:"last_name,omitempty" dynamodbav:"last_name"`
	BusinessName string      `json:"business_name,omitempty" dynamodbav:"business_name"`
	APIKeys      *APIKeys    `json:"api_keys,omitempty" dynamodbav:"api_keys"`
	Verified     bool        `json:"verified" dynamodbav:"verified"`
	IsDefault    bool        `json:"is_default" dynamodbav:"is_default"`
	CreatedAt    time.Time   `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time   `json:"updated" dynamodbav:"updated_at"`
}

// NewProfile is the single construction path for all profile kinds.
// Business profiles must supply API keys; the other kinds must not.
func NewProfile(profileID, accountID string, kind ProfileType, req SignUpRequest, keys *APIKeys, now time.Time) (*Profile, error) {
	p := &Profile{
		ProfileID: profileID,
		AccountID: accountID,
		Type:      kind,
		Verified:  true,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch kind {
	case ProfilePersonal, ProfileAdmin:
		p.FirstName = req.FirstName
		p.LastName = req.LastName
	case ProfileBusiness:
		if keys == nil {
			return nil, fmt.Errorf("business profile requires api keys: %w", ErrBadRequest)
		}
		p.BusinessName = req.BusinessName
		p.APIKeys = keys
	default:
		return nil, fmt.Errorf("unknown profile type %q: %w", kind, ErrBadRequest)
	}
	return p, nil
}
