// Package domain defines the session domain models. A session is the
// in-memory window during which a tenant's key material stays usable after a
// successful passphrase unlock; nothing about it is persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus describes an unlocked session. ExpiresAt is fixed at unlock
// time; activity does not extend it.
type SessionStatus struct {
	SessionID  string    `json:"session_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
	ExpiresAt  time.Time `json:"expires_at"`

	// DekCached reports whether the tenant DEK is currently cached. A false
	// value does not require a new unlock; the DEK is re-unwrapped from the
	// cached KEK on the next content operation.
	DekCached    bool       `json:"dek_cached"`
	DekExpiresAt *time.Time `json:"dek_expires_at,omitempty"`
}
