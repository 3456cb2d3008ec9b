package domain

import (
	"github.com/ledgerlock/ledgerlock/internal/errors"
)

// Cryptographic operation error definitions.
//
// Configuration errors (bad salt, bad cost parameters, bad key sizes) wrap
// ErrInvalidInput and fail fast before any derivation or cipher work is
// attempted. Authentication failures collapse wrong-key and tampered-data
// cases into the single ErrAuthFailure sentinel.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not
	// supported. Supported: XChaCha20 (xchacha20-poly1305), AESGCM (aes-gcm).
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a KEK or DEK is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidSaltSize indicates a stored tenant salt is not exactly
	// SaltSize bytes. This is a configuration/storage corruption error and is
	// rejected before derivation, never surfaced as a wrong-passphrase signal.
	ErrInvalidSaltSize = errors.Wrap(errors.ErrInvalidInput, "invalid salt size")

	// ErrUnsupportedCostVersion indicates an unknown KDF cost-parameter version.
	ErrUnsupportedCostVersion = errors.Wrap(errors.ErrInvalidInput, "unsupported cost parameter version")

	// ErrInvalidCostParams indicates a zeroed or otherwise malformed cost
	// parameter set.
	ErrInvalidCostParams = errors.Wrap(errors.ErrInvalidInput, "invalid cost parameters")

	// ErrWeakPassphrase indicates the passphrase is below the policy minimum
	// length. Checked before derivation.
	ErrWeakPassphrase = errors.Wrap(errors.ErrInvalidInput, "passphrase below minimum length")

	// ErrInvalidEnvelope indicates a persisted envelope is missing part of its
	// (ciphertext, nonce, tag) triple.
	ErrInvalidEnvelope = errors.Wrap(errors.ErrInvalidInput, "invalid envelope")

	// ErrAuthFailure indicates an AEAD open failed: wrong key, altered
	// ciphertext, altered nonce or tag, or mismatched associated identity.
	// The causes are deliberately indistinguishable. No partial plaintext is
	// ever released alongside this error.
	ErrAuthFailure = errors.ErrAuthFailure
)
