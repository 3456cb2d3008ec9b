package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
)

// XChaCha20Poly1305Cipher implements the AEAD interface using XChaCha20-Poly1305.
//
// The extended 24-byte nonce is the reason this is the default algorithm:
// random nonces stay collision-free without any cross-process coordination,
// which matters because every seal call draws a fresh nonce from crypto/rand.
type XChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewXChaCha20Poly1305 creates a new XChaCha20-Poly1305 cipher instance.
// The key must be exactly 32 bytes (256 bits).
func NewXChaCha20Poly1305(key []byte) (*XChaCha20Poly1305Cipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create XChaCha20-Poly1305 cipher: %w", err)
	}

	return &XChaCha20Poly1305Cipher{aead: aead}, nil
}

// Seal encrypts plaintext bound to the associated identity and returns the
// (ciphertext, nonce, tag) triple with a fresh 192-bit random nonce.
func (c *XChaCha20Poly1305Cipher) Seal(plaintext, identity []byte) (cryptoDomain.Envelope, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, plaintext, identity)
	return splitSealed(sealed, nonce), nil
}

// Open authenticates and decrypts an envelope. Returns ErrAuthFailure on any
// mismatch; the caller cannot distinguish a wrong key from corrupted data.
func (c *XChaCha20Poly1305Cipher) Open(envelope cryptoDomain.Envelope, identity []byte) ([]byte, error) {
	plaintext, err := c.aead.Open(nil, envelope.Nonce, joinSealed(envelope), identity)
	if err != nil {
		return nil, cryptoDomain.ErrAuthFailure
	}
	return plaintext, nil
}

// splitSealed separates the authentication tag the stdlib AEAD appends to the
// ciphertext, so the triple is persisted as three explicit parts.
func splitSealed(sealed, nonce []byte) cryptoDomain.Envelope {
	cut := len(sealed) - cryptoDomain.TagSize
	return cryptoDomain.Envelope{
		Ciphertext: sealed[:cut],
		Nonce:      nonce,
		Tag:        sealed[cut:],
	}
}

// joinSealed reassembles ciphertext||tag for the stdlib AEAD open call.
func joinSealed(envelope cryptoDomain.Envelope) []byte {
	sealed := make([]byte, 0, len(envelope.Ciphertext)+len(envelope.Tag))
	sealed = append(sealed, envelope.Ciphertext...)
	sealed = append(sealed, envelope.Tag...)
	return sealed
}
