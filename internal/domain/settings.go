package domain

import "time"

// Appearance holds basic display preferences.
type Appearance struct {
	Mode string `json:"mode" dynamodbav:"mode"` // "light" | "dark"
}

// Settings is the per-account preferences record, created at sign-up.
type Settings struct {
	SettingsID    string     `json:"id" dynamodbav:"settings_id"`
	AccountID     string     `json:"account_id" dynamodbav:"account_id"`
	ProfileID     string     `json:"profile_id" dynamodbav:"profile_id"`
	Appearance    Appearance `json:"appearance" dynamodbav:"appearance"`
	Notifications bool       `json:"notifications" dynamodbav:"notifications"`
	CreatedAt     time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// MFASettings holds the two independent MFA enablement flags.
// TOTP takes precedence over email when both are enabled.
type MFASettings struct {
	WasTotpEnabled  bool `json:"wasTotpEnabled" dynamodbav:"was_totp_enabled"`
	WasEmailEnabled bool `json:"wasEmailEnabled" dynamodbav:"was_email_enabled"`
}

// SecuritySettings is the per-account security record, created at sign-up
// alongside Settings and mutated when MFA is enabled or disabled.
type SecuritySettings struct {
	SecurityID  string      `json:"id" dynamodbav:"security_id"`
	AccountID   string      `json:"account_id" dynamodbav:"account_id"`
	SettingsID  string      `json:"settings_id" dynamodbav:"settings_id"`
	MFA         MFASettings `json:"mfa" dynamodbav:"mfa"`
	TOTPSecret  string      `json:"-" dynamodbav:"totp_secret"`
	FaceTouchID bool        `json:"face_touch_id" dynamodbav:"face_touch_id"`
	TransferPin bool        `json:"transfer_pin" dynamodbav:"transfer_pin"`
	CreatedAt   time.Time   `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time   `json:"updated" dynamodbav:"updated_at"`
}
