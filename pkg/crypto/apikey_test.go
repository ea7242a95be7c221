package crypto

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	fullKey, keyHash, keyPrefix, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(fullKey, APIKeyPrefix))
	assert.Len(t, keyPrefix, APIKeyLookupPrefixLen)
	assert.Equal(t, fullKey[:APIKeyLookupPrefixLen], keyPrefix)
	assert.NotContains(t, keyHash, fullKey)

	assert.True(t, CheckAPIKey(fullKey, keyHash))
	assert.False(t, CheckAPIKey(fullKey+"x", keyHash))
}

func TestGenerateAPIKey_Unique(t *testing.T) {
	k1, _, _, err := GenerateAPIKey()
	require.NoError(t, err)
	k2, _, _, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestGenerateAPIKey_RandFailure(t *testing.T) {
	orig := randomRead
	randomRead = func([]byte) (int, error) { return 0, errors.New("entropy exhausted") }
	defer func() { randomRead = orig }()

	_, _, _, err := GenerateAPIKey()
	assert.Error(t, err)
}

func TestHashAPIKey_Failure(t *testing.T) {
	orig := bcryptGenerateFromPassword
	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) { return nil, errors.New("boom") }
	defer func() { bcryptGenerateFromPassword = orig }()

	_, err := HashAPIKey("vk_live_whatever")
	assert.Error(t, err)
}
