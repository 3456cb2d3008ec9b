// Package service provides tenant-related services: recovery code generation
// and verification backed by Argon2id password hashing.
package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
)

// RecoveryCodeService generates and verifies tenant recovery codes. The code
// itself doubles as a derivation passphrase for the recovery-wrapped DEK, so
// only its hash is stored.
type RecoveryCodeService interface {
	// Generate creates a new random recovery code and its Argon2id hash.
	Generate() (plainCode string, hashedCode string, err error)

	// Compare performs a constant-time comparison between a plain recovery
	// code and its stored hash.
	Compare(plainCode string, hashedCode string) bool
}

// recoveryCodeService implements RecoveryCodeService using Argon2id hashing.
type recoveryCodeService struct {
	hasher *pwdhash.PasswordHasher
}

// Generate creates a new cryptographically secure 32-byte random recovery code.
// The code is base64-encoded for display and entry.
func (s *recoveryCodeService) Generate() (plainCode string, hashedCode string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random recovery code")
	}

	plainCode = base64.URLEncoding.EncodeToString(randomBytes)

	hashedCode, err = s.hasher.Hash([]byte(plainCode))
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to hash recovery code")
	}

	return plainCode, hashedCode, nil
}

// Compare performs a constant-time comparison between a plain recovery code and its hash.
func (s *recoveryCodeService) Compare(plainCode string, hashedCode string) bool {
	ok, err := s.hasher.Verify([]byte(plainCode), hashedCode)
	if err != nil {
		return false
	}
	return ok
}

// NewRecoveryCodeService creates a new RecoveryCodeService using Argon2id hashing.
// Uses the Moderate policy for a balance between security and performance.
func NewRecoveryCodeService() RecoveryCodeService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &recoveryCodeService{
		hasher: hasher,
	}
}
