// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/ledgerlock/ledgerlock/internal/validation"
)

// UnlockRequest contains the parameters for unlocking a session with a
// tenant passphrase.
type UnlockRequest struct {
	SessionID  string    `json:"session_id" binding:"required"`
	TenantID   uuid.UUID `json:"tenant_id" binding:"required"`
	Passphrase string    `json:"passphrase" binding:"required"`
	Actor      string    `json:"actor"`
}

// Validate checks if the unlock request is valid.
func (r *UnlockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SessionID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.TenantID, validation.Required),
		validation.Field(&r.Passphrase,
			validation.Required,
			customValidation.Passphrase,
		),
	)
}

// LockRequest contains the parameters for locking a session.
type LockRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Actor     string `json:"actor"`
}

// Validate checks if the lock request is valid.
func (r *LockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SessionID,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
