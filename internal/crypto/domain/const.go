// Package domain defines the core cryptographic domain models for the
// zero-knowledge key hierarchy.
//
// The hierarchy has two tiers: a KEK derived on demand from a user passphrase
// plus a stored per-tenant salt, and a per-tenant DEK wrapped under that KEK.
// Plaintext key material only ever exists in process memory; the server
// persists salts and (ciphertext, nonce, tag) envelopes, nothing it could
// use to reconstruct content on its own.
package domain

// Algorithm represents the AEAD algorithm used for envelope encryption.
//
// Both supported algorithms provide Authenticated Encryption with Associated
// Data (AEAD) with 256-bit keys and 128-bit authentication tags. The default
// is XChaCha20-Poly1305: its 192-bit nonce makes random nonce generation safe
// without any cross-process counter coordination.
type Algorithm string

const (
	// XChaCha20 represents the XChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// The extended 24-byte (192-bit) nonce is generated fresh and uniformly at
	// random for every seal operation; the collision probability stays negligible
	// for any realistic number of encryptions under the same key, which is why
	// this is the default for wrapping DEKs and sealing content fields.
	XChaCha20 Algorithm = "xchacha20-poly1305"

	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// Kept as a deployment alternative for hosts with AES-NI acceleration.
	// Uses a 12-byte (96-bit) random nonce, which is safe for the bounded
	// number of seals performed per DEK in this system.
	AESGCM Algorithm = "aes-gcm"
)

const (
	// KeySize is the size in bytes of all symmetric keys (KEKs and DEKs).
	KeySize = 32

	// SaltSize is the size in bytes of the per-tenant KDF salt (128 bits).
	// Generated once at tenant creation, immutable, never reused across tenants.
	SaltSize = 16

	// TagSize is the size in bytes of the AEAD authentication tag (128 bits)
	// for both supported algorithms.
	TagSize = 16

	// MinPassphraseLength is the policy minimum for user passphrases.
	// Enforced before derivation; rejecting short passphrases early keeps the
	// expensive KDF off the hot path for obviously invalid input.
	MinPassphraseLength = 20
)
