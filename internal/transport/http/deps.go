package http

import (
	"github.com/bentopay/auth-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/bentopay/auth-api/internal/infrastructure/jwt"
	"github.com/bentopay/auth-api/internal/infrastructure/kyc"
	"github.com/bentopay/auth-api/internal/infrastructure/smtp"
	"github.com/bentopay/auth-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router. Everything is
// constructed in main and injected here; services receive only the narrow
// slices they declare.
type Deps struct {
	AccountRepo  *dynamo.AccountRepo
	ProfileRepo  *dynamo.ProfileRepo
	SettingsRepo *dynamo.SettingsRepo
	OTPRepo      *dynamo.OTPRepo
	Txs          *dynamo.TxFactory
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
	PlaidClient  *kyc.PlaidClient
	VerifyMe     *kyc.VerifyMeClient
}
