package auth

import (
	"crypto"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"space-chat/errors"
)

// EncryptionKeySize is the AES-256 key length, in bytes.
const EncryptionKeySize = 32

// Keys holds the key material derived once at startup.
type Keys struct {
	SigningKey    []byte
	EncryptionKey []byte
}

// DeriveSigningKey hashes an arbitrary-length secret into a 256-bit HMAC key.
// There is no fallback: without SHA-256 the process must not start.
func DeriveSigningKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: signing secret is empty", errors.ErrConfig)
	}
	if !crypto.SHA256.Available() {
		return nil, fmt.Errorf("%w: sha256 is not available", errors.ErrConfig)
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], nil
}

// DecodeEncryptionKey decodes a standard base64 key and checks it is exactly 32 bytes.
func DecodeEncryptionKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		// The decoder error echoes input bytes, keep it out of the message.
		return nil, fmt.Errorf("%w: encryption key is not valid base64", errors.ErrConfig)
	}
	if len(key) != EncryptionKeySize {
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d",
			errors.ErrConfig, EncryptionKeySize, len(key))
	}
	return key, nil
}

// LoadKeys derives both keys from configuration values.
func LoadKeys(secret, encodedEncryptionKey string) (Keys, error) {
	signingKey, err := DeriveSigningKey(secret)
	if err != nil {
		return Keys{}, err
	}
	encryptionKey, err := DecodeEncryptionKey(encodedEncryptionKey)
	if err != nil {
		return Keys{}, err
	}
	return Keys{SigningKey: signingKey, EncryptionKey: encryptionKey}, nil
}
