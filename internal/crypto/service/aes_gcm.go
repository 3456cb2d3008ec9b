package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// Offered as a deployment alternative for hosts with AES-NI acceleration.
// Its 96-bit nonce is smaller than XChaCha20's, which is acceptable for the
// bounded number of seals performed under any single DEK here, but XChaCha20
// remains the default.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
// The key must be exactly 32 bytes (256 bits).
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Seal encrypts plaintext bound to the associated identity and returns the
// (ciphertext, nonce, tag) triple with a fresh random nonce.
func (a *AESGCMCipher) Seal(plaintext, identity []byte) (cryptoDomain.Envelope, error) {
	nonce := make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := a.aead.Seal(nil, nonce, plaintext, identity)
	return splitSealed(sealed, nonce), nil
}

// Open authenticates and decrypts an envelope, returning ErrAuthFailure on
// any mismatch.
func (a *AESGCMCipher) Open(envelope cryptoDomain.Envelope, identity []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, envelope.Nonce, joinSealed(envelope), identity)
	if err != nil {
		return nil, cryptoDomain.ErrAuthFailure
	}
	return plaintext, nil
}
