package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	PlaidBaseURL  string
	PlaidClientID string
	PlaidSecret   string

	VerifyMeBaseURL string
	VerifyMeKey     string

	// EnforceEmailMFAExpiry gates the expiration check on email-MFA codes at
	// sign-in. Kept configurable because the upstream flow never enforced it.
	EnforceEmailMFAExpiry bool

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each record kind.
type DynamoTables struct {
	Accounts         string
	Profiles         string
	Settings         string
	SecuritySettings string
	OTPs             string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Accounts:         getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			Profiles:         getEnv("DYNAMO_TABLE_PROFILES", "profiles"),
			Settings:         getEnv("DYNAMO_TABLE_SETTINGS", "settings"),
			SecuritySettings: getEnv("DYNAMO_TABLE_SECURITY_SETTINGS", "security_settings"),
			OTPs:             getEnv("DYNAMO_TABLE_OTPS", "otps"),
		},

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		PlaidBaseURL:  getEnv("PLAID_BASE_URL", "https://sandbox.plaid.com"),
		PlaidClientID: getEnv("PLAID_CLIENT_ID", ""),
		PlaidSecret:   getEnv("PLAID_SECRET_KEY", ""),

		VerifyMeBaseURL: getEnv("VERIFYME_BASE_URL", "https://api.verifyme.ng"),
		VerifyMeKey:     getEnv("VERIFYME_KEY", ""),

		EnforceEmailMFAExpiry: getEnvBool("MFA_EMAIL_CODE_ENFORCE_EXPIRY", true),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
