package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// APIKeyPrefix is the fixed literal all issued keys start with.
	APIKeyPrefix = "vk_live_"
	// APIKeyLookupPrefixLen is how many leading characters are stored in
	// clear for indexed candidate lookup. The prefix alone cannot forge a key.
	APIKeyLookupPrefixLen = 11
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
)

// GenerateAPIKey creates a new API key. It returns the full key (shown to the
// caller exactly once), the bcrypt hash to persist, and the short non-secret
// lookup prefix.
func GenerateAPIKey() (fullKey, keyHash, keyPrefix string, err error) {
	raw := make([]byte, 32)
	if _, err = randomRead(raw); err != nil {
		return "", "", "", fmt.Errorf("failed to generate api key: %w", err)
	}
	fullKey = APIKeyPrefix + base64.RawURLEncoding.EncodeToString(raw)

	keyHash, err = HashAPIKey(fullKey)
	if err != nil {
		return "", "", "", err
	}

	keyPrefix = fullKey[:APIKeyLookupPrefixLen]
	return fullKey, keyHash, keyPrefix, nil
}

// HashAPIKey hashes a full API key using bcrypt
func HashAPIKey(key string) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(key), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(bytes), nil
}

// CheckAPIKey compares a presented key with a stored hash
func CheckAPIKey(key, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	return err == nil
}
