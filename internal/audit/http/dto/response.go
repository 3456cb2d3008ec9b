// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/hex"
	"time"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
)

// VerifyChainResponse reports the outcome of an audit chain verification.
// Hashes are hex-encoded. When Valid is false, the break fields localize the
// first broken link.
type VerifyChainResponse struct {
	TenantID       string `json:"tenant_id"`
	Valid          bool   `json:"valid"`
	EventsVerified uint64 `json:"events_verified,omitempty"`
	TailSequence   uint64 `json:"tail_sequence,omitempty"`
	TailHash       string `json:"tail_hash,omitempty"`

	BrokenSequence uint64 `json:"broken_sequence,omitempty"`
	BrokenEventID  string `json:"broken_event_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
	ExpectedHash   string `json:"expected_hash,omitempty"`
	StoredHash     string `json:"stored_hash,omitempty"`
}

// MapVerifyResultToResponse converts a successful verification to an API response.
func MapVerifyResultToResponse(result *auditDomain.VerifyResult) VerifyChainResponse {
	return VerifyChainResponse{
		TenantID:       result.TenantID.String(),
		Valid:          true,
		EventsVerified: result.EventsVerified,
		TailSequence:   result.TailSequence,
		TailHash:       hex.EncodeToString(result.TailHash),
	}
}

// MapChainBrokenToResponse converts a detected chain break to an API response.
func MapChainBrokenToResponse(brokenErr *auditDomain.ChainBrokenError) VerifyChainResponse {
	return VerifyChainResponse{
		TenantID:       brokenErr.TenantID.String(),
		Valid:          false,
		BrokenSequence: brokenErr.Sequence,
		BrokenEventID:  brokenErr.EventID.String(),
		Reason:         brokenErr.Reason,
		ExpectedHash:   hex.EncodeToString(brokenErr.ExpectedHash),
		StoredHash:     hex.EncodeToString(brokenErr.ActualHash),
	}
}

// AuditEventResponse represents one audit chain event in API responses.
// Hashes are hex-encoded; the opaque payload is base64 via JSON encoding.
type AuditEventResponse struct {
	ID          string            `json:"id"`
	Sequence    uint64            `json:"sequence"`
	EventType   string            `json:"event_type"`
	Actor       string            `json:"actor,omitempty"`
	Attrs       map[string]string `json:"attrs,omitempty"`
	Opaque      []byte            `json:"opaque,omitempty"`
	PrevHash    string            `json:"prev_hash"`
	CurrentHash string            `json:"current_hash"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ListAuditEventsResponse represents a paginated list of audit events.
type ListAuditEventsResponse struct {
	Data []AuditEventResponse `json:"data"`
}

// MapEventsToListResponse converts a slice of domain audit events to a list response.
func MapEventsToListResponse(events []*auditDomain.AuditEvent) ListAuditEventsResponse {
	data := make([]AuditEventResponse, 0, len(events))
	for _, event := range events {
		data = append(data, AuditEventResponse{
			ID:          event.ID.String(),
			Sequence:    event.Sequence,
			EventType:   event.EventType,
			Actor:       event.Actor,
			Attrs:       event.Data.Attrs,
			Opaque:      event.Data.Opaque,
			PrevHash:    hex.EncodeToString(event.PrevHash),
			CurrentHash: hex.EncodeToString(event.CurrentHash),
			CreatedAt:   event.CreatedAt,
		})
	}

	return ListAuditEventsResponse{
		Data: data,
	}
}
