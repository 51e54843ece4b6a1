// Package encryption protects message bodies at rest with AES-256-GCM.
//
// Stored layout, base64 encoded: 12-byte nonce || ciphertext || 16-byte tag.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"space-chat/errors"
)

const (
	KeySize   = 32
	NonceSize = 12
	TagSize   = 16
)

// MessageCipher holds one immutable AEAD. Seal and Open on cipher.AEAD are
// safe for concurrent use, so a single instance serves the whole process.
type MessageCipher struct {
	aead cipher.AEAD
}

func NewMessageCipher(key []byte) (*MessageCipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d", errors.ErrConfig, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfig, err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfig, err)
	}
	return &MessageCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
// Two calls with the same plaintext never produce the same output.
func (c *MessageCipher) Encrypt(plaintext []byte) (string, error) {
	out := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err := rand.Read(out); err != nil {
		return "", fmt.Errorf("nonce generation failed: %w", err)
	}
	out = c.aead.Seal(out, out[:NonceSize], plaintext, nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens an encoded message. Any decoding, length or tag failure is
// reported as ErrIntegrity and no plaintext is returned.
func (c *MessageCipher) Decrypt(encoded string) ([]byte, error) {
	// Strict: non-canonical padding bits would let an altered string decode to the same bytes.
	raw, err := base64.StdEncoding.Strict().DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: not base64", errors.ErrIntegrity)
	}
	if len(raw) < NonceSize+TagSize {
		return nil, fmt.Errorf("%w: ciphertext too short", errors.ErrIntegrity)
	}
	plaintext, err := c.aead.Open(nil, raw[:NonceSize], raw[NonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", errors.ErrIntegrity)
	}
	return plaintext, nil
}

func (c *MessageCipher) EncryptString(plaintext string) (string, error) {
	return c.Encrypt([]byte(plaintext))
}

func (c *MessageCipher) DecryptString(encoded string) (string, error) {
	plaintext, err := c.Decrypt(encoded)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
