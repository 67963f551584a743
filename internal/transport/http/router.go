package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/bentopay/auth-api/internal/application/auth"
	"github.com/bentopay/auth-api/internal/application/onboarding"
	"github.com/bentopay/auth-api/internal/application/password"
	"github.com/bentopay/auth-api/internal/application/verification"
	"github.com/bentopay/auth-api/internal/config"
	"github.com/bentopay/auth-api/internal/transport/http/handler"
	appmiddleware "github.com/bentopay/auth-api/internal/transport/http/middleware"
	"github.com/bentopay/auth-api/internal/verify"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	policy := verify.Policy{EnforceEmailOTPExpiry: cfg.EnforceEmailMFAExpiry}

	authSvc := auth.NewService(auth.ServiceDeps{
		AccountRepo:  deps.AccountRepo,
		ProfileRepo:  deps.ProfileRepo,
		SettingsRepo: deps.SettingsRepo,
		OTPRepo:      deps.OTPRepo,
		Mailer:       deps.Mailer,
		JWTProvider:  deps.JWTProvider,
		Txs:          deps.Txs,
		Policy:       policy,
	})
	passwordSvc := password.NewService(password.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
	})
	verificationSvc := verification.NewService(verification.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
	})
	onboardingSvc := onboarding.NewService(onboarding.ServiceDeps{
		AccountRepo:    deps.AccountRepo,
		VerifyMeClient: deps.VerifyMe,
		PlaidClient:    deps.PlaidClient,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	passwordH := handler.NewPasswordHandler(passwordSvc)
	verificationH := handler.NewVerificationHandler(verificationSvc)
	onboardingH := handler.NewOnboardingHandler(onboardingSvc)

	// ── Public routes (no auth) ──────────────────────────────────────────
	r.Get("/health-check", healthH.Ping)
	r.With(sensitiveRL.Limit).Post("/signup", authH.SignUp)
	r.With(sensitiveRL.Limit).Post("/signin", authH.SignIn)
	r.With(sensitiveRL.Limit).Post("/forgot_password", passwordH.Forgot)
	r.With(sensitiveRL.Limit).Post("/reset_password", passwordH.Reset)
	r.With(sensitiveRL.Limit).Post("/onboard", onboardingH.Onboard)
	r.Post("/bento_onboard", onboardingH.BentoOnboard)
	r.Get("/verify_email", verificationH.VerifyEmail)
	r.Get("/verify_mobile", verificationH.VerifyMobile)
	r.Get("/verify_plaid_idv/{password}", onboardingH.VerifyPlaidIDV)

	// ── Authenticated routes ─────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Put("/change_password", passwordH.Change)
		r.Put("/send_verification", verificationH.Send)
	})

	return r
}
