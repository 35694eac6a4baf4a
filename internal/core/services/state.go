package services

import (
	"crypto/rand"
	"encoding/base64"
)

// stateTokenLength is the number of random bytes in an OAuth state token.
const stateTokenLength = 32

// generateState creates a random state parameter for CSRF protection.
func generateState() (string, error) {
	bytes := make([]byte, stateTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
