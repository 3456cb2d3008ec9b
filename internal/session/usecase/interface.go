// Package usecase implements session lifecycle business logic: unlocking a
// tenant's key material with its passphrase, reporting session state, and
// locking. Sessions exist only in process memory.
package usecase

import (
	"context"

	"github.com/google/uuid"

	sessionDomain "github.com/ledgerlock/ledgerlock/internal/session/domain"
)

// UnlockInput contains the input data for a session unlock.
type UnlockInput struct {
	SessionID  string    `json:"session_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Passphrase string    `json:"passphrase"`
	Actor      string    `json:"actor"`
}

// SessionUseCase defines the interface for session lifecycle business logic.
type SessionUseCase interface {
	// Unlock derives the session KEK from the passphrase and proves it by
	// unwrapping the tenant DEK. A wrong passphrase and a tampered stored
	// envelope both surface as ErrAuthFailure, and the failed attempt is
	// appended to the tenant's audit chain.
	Unlock(ctx context.Context, input UnlockInput) (*sessionDomain.SessionStatus, error)

	// Status reports the state of an unlocked session. Expired and unknown
	// sessions return ErrSessionExpired.
	Status(ctx context.Context, sessionID string) (*sessionDomain.SessionStatus, error)

	// Lock evicts the session's key material. Locking an unknown or already
	// expired session is a no-op.
	Lock(ctx context.Context, sessionID, actor string) error

	// TenantDek returns the plaintext DEK for the session's tenant,
	// re-unwrapping it from the cached KEK when the DEK window has closed.
	// The returned slice is a caller-owned copy; the caller zeroes it when
	// the operation is done.
	TenantDek(ctx context.Context, sessionID string) ([]byte, uuid.UUID, error)
}
