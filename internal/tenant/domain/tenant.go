// Package domain defines the tenant domain model. A tenant owns one data
// encryption key (DEK), stored only in wrapped form: once under a key derived
// from the tenant passphrase, and once under a key derived from the recovery
// code. The plaintext DEK and the passphrase never touch storage.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
)

// RecoveryMethodPassphrase and RecoveryMethodRecoveryCode name how a rotation
// proved access to the DEK.
const (
	RecoveryMethodPassphrase   = "passphrase"
	RecoveryMethodRecoveryCode = "recovery_code"
)

// Tenant is an isolated key-hierarchy root.
//
// KDFSalt and CostVersion pin the derivation inputs for the passphrase KEK;
// changing cost defaults never strands existing tenants. RecoveryHash is an
// Argon2id hash of the recovery code used only to distinguish a wrong code
// from a tampered recovery envelope.
type Tenant struct {
	ID          uuid.UUID
	Name        string
	Algorithm   cryptoDomain.Algorithm
	KDFSalt     []byte
	CostVersion uint8
	WrappedDek  cryptoDomain.Envelope

	RecoverySalt       []byte
	RecoveryWrappedDek cryptoDomain.Envelope
	RecoveryHash       string

	CreatedAt time.Time
	UpdatedAt time.Time
}
