package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bentopay/auth-api/internal/config"
	"github.com/bentopay/auth-api/internal/domain"
)

// IDVResult is the subset of a Plaid identity-verification session this
// service consumes. Status "success" means the provider accepted the identity.
type IDVResult struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	KYCCheck any      `json:"kyc_check"`
	User     IDVUser  `json:"user"`
}

type IDVUser struct {
	PhoneNumber  string     `json:"phone_number"`
	EmailAddress string     `json:"email_address"`
	DateOfBirth  string     `json:"date_of_birth"`
	Name         IDVName    `json:"name"`
	Address      IDVAddress `json:"address"`
}

type IDVName struct {
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

type IDVAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// PlaidClient fetches identity-verification sessions from Plaid.
type PlaidClient struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
}

func NewPlaidClient(cfg *config.Config) *PlaidClient {
	return &PlaidClient{
		baseURL:  cfg.PlaidBaseURL,
		clientID: cfg.PlaidClientID,
		secret:   cfg.PlaidSecret,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// GetIdentityVerification retrieves the IDV session by its id. A provider
// rejection or non-success session surfaces as domain.ErrUnauthorized so
// handlers abort without persisting anything.
func (c *PlaidClient) GetIdentityVerification(ctx context.Context, sessionID string) (*IDVResult, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":                c.clientID,
		"secret":                   c.secret,
		"identity_verification_id": sessionID,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/identity_verification/get", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plaid request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("plaid returned %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	}
	var out IDVResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode plaid response: %w", err)
	}
	return &out, nil
}
