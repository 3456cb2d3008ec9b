package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/sync/semaphore"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
)

// kekInfo versions the HKDF expansion of the Argon2id output into the KEK.
// Separating the raw KDF output from the wrap-key usage leaves room for
// additional derived subkeys without a cost-parameter version bump.
const kekInfo = "kek-wrap-v1"

// KDFService implements KeyDeriver using Argon2id.
//
// Derivation is deliberately CPU- and memory-expensive, so concurrent
// derivations are bounded by a weighted semaphore: each in-flight call holds
// MemoryKiB of working memory, and an unbounded number of them could exhaust
// the process. Callers waiting on the semaphore respect their context, so a
// contended derivation cannot hold a request slot past its deadline.
type KDFService struct {
	params cryptoDomain.CostParams
	sem    *semaphore.Weighted
}

// NewKDFService creates a KDF service with the given cost parameters and a
// bound on concurrent derivations. The cost parameters are validated here so
// a misconfigured deployment fails at startup, not on first unlock.
func NewKDFService(params cryptoDomain.CostParams, maxConcurrent int64) (*KDFService, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &KDFService{
		params: params,
		sem:    semaphore.NewWeighted(maxConcurrent),
	}, nil
}

// Derive derives a KeySize-byte KEK from the passphrase and the tenant's
// stored salt. Deterministic for identical inputs. Returns a configuration
// error for short passphrases, malformed salts, or unsupported cost versions
// before any expensive work happens.
//
// The Argon2id pass itself is not interruptible; on context cancellation the
// in-flight derivation finishes in the background, its output is zeroed, and
// nothing is returned to the caller.
func (k *KDFService) Derive(ctx context.Context, passphrase string, salt []byte) ([]byte, error) {
	if len(passphrase) < cryptoDomain.MinPassphraseLength {
		return nil, cryptoDomain.ErrWeakPassphrase
	}
	if len(salt) != cryptoDomain.SaltSize {
		return nil, cryptoDomain.ErrInvalidSaltSize
	}

	if err := k.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("kdf pool: %w", err)
	}

	type result struct {
		kek []byte
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer k.sem.Release(1)
		kek, err := k.derive(passphrase, salt)
		select {
		case done <- result{kek: kek, err: err}:
		default:
			// Caller gave up; never leave key material reachable.
			cryptoDomain.Zero(kek)
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.kek, res.err
	}
}

// derive runs Argon2id and expands the output into the KEK via HKDF-SHA256.
func (k *KDFService) derive(passphrase string, salt []byte) ([]byte, error) {
	root := argon2.IDKey(
		[]byte(passphrase),
		salt,
		k.params.Time,
		k.params.MemoryKiB,
		k.params.Parallelism,
		cryptoDomain.KeySize,
	)
	defer cryptoDomain.Zero(root)

	kek := make([]byte, cryptoDomain.KeySize)
	reader := hkdf.New(sha256.New, root, nil, []byte(kekInfo))
	if _, err := io.ReadFull(reader, kek); err != nil {
		cryptoDomain.Zero(kek)
		return nil, fmt.Errorf("failed to expand kek: %w", err)
	}

	return kek, nil
}
