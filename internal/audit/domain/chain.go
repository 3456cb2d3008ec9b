package domain

import (
	"github.com/google/uuid"
)

// ChainTail is the per-tenant chain head row. It carries the sequence and
// hash of the tenant's latest event and is locked (SELECT ... FOR UPDATE)
// for the duration of every append, so concurrent appends serialize instead
// of racing to the same predecessor.
//
// A tenant with no events yet has Sequence 0 and Hash equal to the genesis
// constant.
type ChainTail struct {
	TenantID uuid.UUID
	Sequence uint64
	Hash     []byte
}
