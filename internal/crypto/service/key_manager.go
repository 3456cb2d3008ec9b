package service

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
)

// wrappedDekContext labels the associated identity for DEK wrapping so a
// wrapped DEK can never be replayed as a content-field envelope or vice versa.
const wrappedDekContext = "wrapped-dek"

// KeyManagerService implements the KeyManager interface for the two-tier
// hierarchy: DEKs are wrapped under passphrase-derived KEKs, content fields
// are sealed under DEKs. The same AEAD primitive serves both, distinguished
// by the associated identity.
type KeyManagerService struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewKeyManager creates a KeyManagerService using the provided AEADManager
// and the deployment's configured algorithm.
func NewKeyManager(aeadManager AEADManager, algorithm cryptoDomain.Algorithm) *KeyManagerService {
	return &KeyManagerService{
		aeadManager: aeadManager,
		algorithm:   algorithm,
	}
}

// GenerateDek returns a fresh random 32-byte DEK. The plaintext DEK only
// ever lives in process memory; callers zero it when done.
func (km *KeyManagerService) GenerateDek() ([]byte, error) {
	dek := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(dek); err != nil {
		return nil, fmt.Errorf("failed to generate DEK: %w", err)
	}
	return dek, nil
}

// WrapDek encrypts the plaintext DEK under the KEK, bound to the tenant id.
func (km *KeyManagerService) WrapDek(
	kek, dek []byte,
	tenantID uuid.UUID,
) (cryptoDomain.Envelope, error) {
	aead, err := km.aeadManager.CreateCipher(kek, km.algorithm)
	if err != nil {
		return cryptoDomain.Envelope{}, err
	}

	identity := cryptoDomain.AssociatedIdentity(tenantID[:], []byte(wrappedDekContext))
	envelope, err := aead.Seal(dek, identity)
	if err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to wrap DEK: %w", err)
	}

	return envelope, nil
}

// UnwrapDek recovers the plaintext DEK from its envelope. A wrong KEK and a
// tampered envelope are indistinguishable: both return ErrAuthFailure.
func (km *KeyManagerService) UnwrapDek(
	kek []byte,
	envelope cryptoDomain.Envelope,
	tenantID uuid.UUID,
) ([]byte, error) {
	if !envelope.Valid() {
		return nil, cryptoDomain.ErrInvalidEnvelope
	}

	aead, err := km.aeadManager.CreateCipher(kek, km.algorithm)
	if err != nil {
		return nil, err
	}

	identity := cryptoDomain.AssociatedIdentity(tenantID[:], []byte(wrappedDekContext))
	return aead.Open(envelope, identity)
}

// SealField encrypts a content field under the DEK, bound to
// (tenant id, entity id, field name).
func (km *KeyManagerService) SealField(
	dek, plaintext []byte,
	tenantID, entityID uuid.UUID,
	fieldName string,
) (cryptoDomain.Envelope, error) {
	aead, err := km.aeadManager.CreateCipher(dek, km.algorithm)
	if err != nil {
		return cryptoDomain.Envelope{}, err
	}

	identity := cryptoDomain.AssociatedIdentity(tenantID[:], entityID[:], []byte(fieldName))
	envelope, err := aead.Seal(plaintext, identity)
	if err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to seal field: %w", err)
	}

	return envelope, nil
}

// OpenField authenticates and decrypts a content field envelope. An envelope
// copied from a different tenant, entity, or field fails authentication.
func (km *KeyManagerService) OpenField(
	dek []byte,
	envelope cryptoDomain.Envelope,
	tenantID, entityID uuid.UUID,
	fieldName string,
) ([]byte, error) {
	if !envelope.Valid() {
		return nil, cryptoDomain.ErrInvalidEnvelope
	}

	aead, err := km.aeadManager.CreateCipher(dek, km.algorithm)
	if err != nil {
		return nil, err
	}

	identity := cryptoDomain.AssociatedIdentity(tenantID[:], entityID[:], []byte(fieldName))
	return aead.Open(envelope, identity)
}
