// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/ledgerlock/ledgerlock/internal/validation"
)

// EncryptFieldRequest contains the parameters for encrypting a field value.
// Value carries the plaintext as base64.
type EncryptFieldRequest struct {
	SessionID string    `json:"session_id" binding:"required"`
	EntityID  uuid.UUID `json:"entity_id" binding:"required"`
	FieldName string    `json:"field_name" binding:"required"`
	Value     string    `json:"value" binding:"required"`
	Actor     string    `json:"actor"`
}

// Validate checks if the encrypt field request is valid.
func (r *EncryptFieldRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SessionID,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.EntityID, validation.Required),
		validation.Field(&r.FieldName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Value,
			validation.Required,
			customValidation.Base64,
		),
	)
}

// DecryptFieldRequest contains the parameters for decrypting a stored field.
type DecryptFieldRequest struct {
	SessionID string    `json:"session_id" binding:"required"`
	EntityID  uuid.UUID `json:"entity_id" binding:"required"`
	FieldName string    `json:"field_name" binding:"required"`
}

// Validate checks if the decrypt field request is valid.
func (r *DecryptFieldRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SessionID,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.EntityID, validation.Required),
		validation.Field(&r.FieldName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}
