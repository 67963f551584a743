package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewSecret generates a cryptographically random 64-character hex token.
func NewSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewAPIKeyPair mints the public/secret key pair issued to business profiles.
// The public key is a prefixed UUID; the secret is random hex.
func NewAPIKeyPair() (publicKey, secretKey string, err error) {
	publicKey = "pk_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s, err := NewSecret()
	if err != nil {
		return "", "", err
	}
	return publicKey, "sk_" + s, nil
}
