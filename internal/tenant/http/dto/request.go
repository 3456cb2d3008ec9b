// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/ledgerlock/ledgerlock/internal/validation"
)

// CreateTenantRequest contains the parameters for provisioning a tenant and
// its key hierarchy.
type CreateTenantRequest struct {
	Name       string `json:"name" binding:"required"`
	Passphrase string `json:"passphrase" binding:"required"`
	Actor      string `json:"actor"`
}

// Validate checks if the create tenant request is valid.
func (r *CreateTenantRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Passphrase,
			validation.Required,
			customValidation.Passphrase,
		),
	)
}
