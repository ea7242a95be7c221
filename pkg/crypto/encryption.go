package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

var encryptionRandReader io.Reader = rand.Reader

var (
	// ErrUnknownKeyVersion is returned when a ciphertext references a key
	// version that is not present in the ring.
	ErrUnknownKeyVersion = errors.New("unknown encryption key version")
	// ErrDecryptionFailed is returned when a ciphertext is malformed or its
	// authentication tag does not verify.
	ErrDecryptionFailed = errors.New("decryption failed")
)

const nonceSize = 12

// Encryptor performs versioned AES-256-GCM encryption of opaque secrets.
// Ciphertexts carry their key version as a "<version>:" prefix so that old
// data stays decryptable after a key rotation. A ciphertext without a prefix
// is treated as legacy "v1" data.
//
// The key ring lives only in process memory. Removing a version from the
// ring permanently breaks decryption of data still tagged with it; there is
// no automatic re-encryption sweep.
type Encryptor struct {
	keys           map[string]cipher.AEAD
	currentVersion string
}

// NewEncryptor builds an Encryptor from a ring of base64-encoded 32-byte
// keys. The ring must not be empty and must contain currentVersion.
func NewEncryptor(keys map[string]string, currentVersion string) (*Encryptor, error) {
	if len(keys) == 0 {
		return nil, errors.New("encryption key ring is empty")
	}

	ring := make(map[string]cipher.AEAD, len(keys))
	for version, encoded := range keys {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("key %s is not valid base64: %w", version, err)
		}
		if len(raw) != 32 {
			return nil, fmt.Errorf("key %s must be 32 bytes, got %d", version, len(raw))
		}

		block, err := aes.NewCipher(raw)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", version, err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", version, err)
		}
		ring[version] = gcm
	}

	if _, ok := ring[currentVersion]; !ok {
		return nil, fmt.Errorf("current version %s not present in key ring", currentVersion)
	}

	return &Encryptor{keys: ring, currentVersion: currentVersion}, nil
}

// CurrentVersion returns the version used for new encryptions.
func (e *Encryptor) CurrentVersion() string {
	return e.currentVersion
}

// Encrypt seals plaintext under the current key version and returns
// "<version>:<base64(nonce || ciphertext || tag)>". An empty plaintext is a
// pass-through and returns an empty string with no error.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	gcm := e.keys[e.currentVersion]
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(encryptionRandReader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return e.currentVersion + ":" + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a versioned ciphertext with the matching ring key. An empty
// ciphertext returns an empty plaintext.
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	version := "v1"
	data := ciphertext
	if idx := strings.Index(ciphertext, ":"); idx >= 0 {
		version = ciphertext[:idx]
		data = ciphertext[idx+1:]
	}

	gcm, ok := e.keys[version]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKeyVersion, version)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64", ErrDecryptionFailed)
	}
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}
