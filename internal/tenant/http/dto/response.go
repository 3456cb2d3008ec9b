package dto

import (
	"time"

	tenantUsecase "github.com/ledgerlock/ledgerlock/internal/tenant/usecase"
)

// CreateTenantResponse represents a newly provisioned tenant in API responses.
// SECURITY: RecoveryCode is returned exactly once, at creation; only its hash
// is stored. It cannot be retrieved again.
type CreateTenantResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Algorithm    string    `json:"algorithm"`
	RecoveryCode string    `json:"recovery_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// MapCreateOutputToResponse converts a tenant creation result to an API response.
func MapCreateOutputToResponse(output *tenantUsecase.CreateTenantOutput) CreateTenantResponse {
	return CreateTenantResponse{
		ID:           output.Tenant.ID.String(),
		Name:         output.Tenant.Name,
		Algorithm:    string(output.Tenant.Algorithm),
		RecoveryCode: output.RecoveryCode,
		CreatedAt:    output.Tenant.CreatedAt,
	}
}
