package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// KeyCipher encrypts and decrypts user-supplied provider API keys with
// AES-256-GCM. The ciphertext layout is nonce || sealed data, with a
// fresh random nonce per encryption, so the same key never produces
// the same ciphertext twice.
type KeyCipher struct {
	aead cipher.AEAD
}

// NewKeyCipher derives an AEAD from the 32-byte server secret.
func NewKeyCipher(secret string) (*KeyCipher, error) {
	if len(secret) != 32 {
		return nil, errors.New("key encryption secret must be exactly 32 bytes")
	}

	block, err := aes.NewCipher([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}

	return &KeyCipher{aead: aead}, nil
}

// Encrypt seals the plaintext API key.
func (c *KeyCipher) Encrypt(plaintext string) ([]byte, error) {
	if plaintext == "" {
		return nil, errors.New("plaintext cannot be empty")
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return c.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt. Tampered or truncated
// input fails authentication and is rejected.
func (c *KeyCipher) Decrypt(ciphertext []byte) (string, error) {
	nonceSize := c.aead.NonceSize()
	if len(ciphertext) <= nonceSize {
		return "", errors.New("ciphertext too short")
	}

	plaintext, err := c.aead.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt API key: %w", err)
	}

	return string(plaintext), nil
}
