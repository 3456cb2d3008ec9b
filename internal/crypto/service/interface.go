// Package service provides the cryptographic services for the key hierarchy:
// passphrase-based key derivation, AEAD envelope sealing, and DEK management.
package service

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
)

// AEAD defines the authenticated envelope cipher. Stateless; the same
// primitive wraps DEKs under a KEK and seals content fields under a DEK.
type AEAD interface {
	// Seal encrypts plaintext, binding it to the associated identity, and
	// returns the (ciphertext, nonce, tag) triple. The nonce is generated
	// fresh and uniformly at random on every call.
	Seal(plaintext, identity []byte) (cryptoDomain.Envelope, error)

	// Open authenticates and decrypts an envelope. It fails closed: any
	// mismatch in ciphertext, nonce, tag, or identity returns ErrAuthFailure
	// with no partial plaintext released.
	Open(envelope cryptoDomain.Envelope, identity []byte) ([]byte, error)
}

// AEADManager creates AEAD cipher instances for a given key and algorithm.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver derives a KEK from a passphrase and a stored per-tenant salt.
// Deliberately slow; implementations bound concurrent derivations and honor
// the caller's context.
type KeyDeriver interface {
	// Derive returns a KeySize-byte KEK. Deterministic for identical
	// (passphrase, salt, cost params) inputs. Malformed salts and unsupported
	// cost versions are rejected before derivation as configuration errors.
	Derive(ctx context.Context, passphrase string, salt []byte) ([]byte, error)
}

// KeyManager manages DEK generation, wrapping, and field-level sealing for
// the envelope encryption hierarchy.
type KeyManager interface {
	// GenerateDek returns a fresh random KeySize-byte DEK.
	GenerateDek() ([]byte, error)

	// WrapDek encrypts a plaintext DEK under the KEK, bound to the tenant id.
	WrapDek(kek, dek []byte, tenantID uuid.UUID) (cryptoDomain.Envelope, error)

	// UnwrapDek recovers the plaintext DEK from its envelope. A wrong KEK or
	// a tampered envelope returns ErrAuthFailure.
	UnwrapDek(kek []byte, envelope cryptoDomain.Envelope, tenantID uuid.UUID) ([]byte, error)

	// SealField encrypts a content field under the DEK, bound to
	// (tenant id, entity id, field name).
	SealField(
		dek, plaintext []byte,
		tenantID, entityID uuid.UUID,
		fieldName string,
	) (cryptoDomain.Envelope, error)

	// OpenField authenticates and decrypts a content field envelope.
	OpenField(
		dek []byte,
		envelope cryptoDomain.Envelope,
		tenantID, entityID uuid.UUID,
		fieldName string,
	) ([]byte, error)
}

// KMSKeeper is the subset of gocloud.dev's secrets.Keeper used for the
// optional outer wrap of stored envelopes.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers for the configured deployment KMS provider.
type KMSService interface {
	// OpenKeeper opens a keeper for the provider identified by keyURI.
	// Returns an error if the URI is invalid or the connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}
