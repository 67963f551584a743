package kyc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bentopay/auth-api/internal/config"
	"github.com/bentopay/auth-api/internal/domain"
)

// NINResult is the national-ID lookup result for Nigerian onboarding.
type NINResult struct {
	Status    string `json:"status"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthdate"`
}

// VerifyMeClient checks Nigerian national identification numbers.
type VerifyMeClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewVerifyMeClient(cfg *config.Config) *VerifyMeClient {
	return &VerifyMeClient{
		baseURL: cfg.VerifyMeBaseURL,
		apiKey:  cfg.VerifyMeKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CheckNIN looks up a NIN. A failed lookup wraps domain.ErrUnauthorized.
func (c *VerifyMeClient) CheckNIN(ctx context.Context, nin string) (*NINResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/verifications/identities/nin/"+nin, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verifyme request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verifyme returned %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	}
	var out struct {
		Status string    `json:"status"`
		Data   NINResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode verifyme response: %w", err)
	}
	out.Data.Status = out.Status
	return &out.Data, nil
}
