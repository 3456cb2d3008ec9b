package dto

import (
	"time"

	sessionDomain "github.com/ledgerlock/ledgerlock/internal/session/domain"
)

// SessionStatusResponse represents the state of an unlocked session in API
// responses. No key material is ever included.
type SessionStatusResponse struct {
	SessionID    string     `json:"session_id"`
	TenantID     string     `json:"tenant_id"`
	UnlockedAt   time.Time  `json:"unlocked_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	DekCached    bool       `json:"dek_cached"`
	DekExpiresAt *time.Time `json:"dek_expires_at,omitempty"`
}

// MapSessionStatusToResponse converts a domain session status to an API response.
func MapSessionStatusToResponse(status *sessionDomain.SessionStatus) SessionStatusResponse {
	return SessionStatusResponse{
		SessionID:    status.SessionID,
		TenantID:     status.TenantID.String(),
		UnlockedAt:   status.UnlockedAt,
		ExpiresAt:    status.ExpiresAt,
		DekCached:    status.DekCached,
		DekExpiresAt: status.DekExpiresAt,
	}
}
