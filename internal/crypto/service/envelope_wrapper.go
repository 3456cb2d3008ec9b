package service

import (
	"context"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
)

// EnvelopeWrapper applies the optional deployment-KMS outer wrap to envelopes
// before they are persisted. With a keeper configured, raw database access
// yields KMS-encrypted blobs instead of AEAD envelope ciphertext. The
// passphrase tier is unaffected.
type EnvelopeWrapper interface {
	// WrapForStorage encrypts the envelope ciphertext under the deployment KMS
	// key. Nonce and tag pass through unchanged.
	WrapForStorage(ctx context.Context, envelope cryptoDomain.Envelope) (cryptoDomain.Envelope, error)

	// UnwrapFromStorage reverses WrapForStorage.
	UnwrapFromStorage(ctx context.Context, envelope cryptoDomain.Envelope) (cryptoDomain.Envelope, error)
}

// kmsEnvelopeWrapper implements EnvelopeWrapper over a secrets.Keeper.
// A nil keeper disables the outer wrap and passes envelopes through.
type kmsEnvelopeWrapper struct {
	keeper KMSKeeper
}

// NewEnvelopeWrapper creates an EnvelopeWrapper. Pass a nil keeper when no
// deployment KMS is configured.
func NewEnvelopeWrapper(keeper KMSKeeper) EnvelopeWrapper {
	return &kmsEnvelopeWrapper{keeper: keeper}
}

func (w *kmsEnvelopeWrapper) WrapForStorage(
	ctx context.Context,
	envelope cryptoDomain.Envelope,
) (cryptoDomain.Envelope, error) {
	if w.keeper == nil {
		return envelope, nil
	}

	wrapped, err := w.keeper.Encrypt(ctx, envelope.Ciphertext)
	if err != nil {
		return cryptoDomain.Envelope{}, apperrors.Wrap(err, "failed to wrap envelope for storage")
	}

	return cryptoDomain.Envelope{
		Ciphertext: wrapped,
		Nonce:      envelope.Nonce,
		Tag:        envelope.Tag,
	}, nil
}

func (w *kmsEnvelopeWrapper) UnwrapFromStorage(
	ctx context.Context,
	envelope cryptoDomain.Envelope,
) (cryptoDomain.Envelope, error) {
	if w.keeper == nil {
		return envelope, nil
	}

	ciphertext, err := w.keeper.Decrypt(ctx, envelope.Ciphertext)
	if err != nil {
		return cryptoDomain.Envelope{}, apperrors.Wrap(err, "failed to unwrap stored envelope")
	}

	return cryptoDomain.Envelope{
		Ciphertext: ciphertext,
		Nonce:      envelope.Nonce,
		Tag:        envelope.Tag,
	}, nil
}
