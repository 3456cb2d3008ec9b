package domain

import (
	"github.com/google/uuid"
)

// VerifyResult summarizes a successful chain verification.
type VerifyResult struct {
	TenantID       uuid.UUID
	EventsVerified uint64
	TailSequence   uint64
	TailHash       []byte
}

// PurgeResult summarizes a retention purge.
type PurgeResult struct {
	TenantID        uuid.UUID
	EventsRemoved   int64
	ThroughSequence uint64
	TailSequence    uint64
}
