package domain

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerlock/ledgerlock/internal/errors"
)

// Audit chain error definitions.
var (
	// ErrChainNotFound indicates no chain head exists for the tenant.
	// Chain heads are created at tenant creation, so this usually means an
	// unknown tenant id.
	ErrChainNotFound = errors.Wrap(errors.ErrNotFound, "audit chain not found")

	// ErrChainForked indicates two appends raced to the same chain tail and
	// the database-level ordering constraint rejected the second. Appends for
	// the tenant halt until an operator verifies the chain.
	ErrChainForked = errors.ErrChainForked

	// ErrChainHalted indicates appends are refused because a fork was
	// detected earlier in this process and not yet cleared by an operator.
	ErrChainHalted = errors.Wrap(errors.ErrChainForked, "appends halted pending operator review")
)

// ChainBrokenError reports the first broken link found by the verifier: the
// exact position and both hash values, so operators can localize tampering
// instead of only learning the chain is invalid. It is surfaced prominently
// but does not halt normal operation.
type ChainBrokenError struct {
	TenantID     uuid.UUID
	Sequence     uint64
	EventID      uuid.UUID
	ExpectedHash []byte
	ActualHash   []byte
	Reason       string
}

// Error implements the error interface. Hashes are hex-encoded; no event
// payload data is included.
func (e *ChainBrokenError) Error() string {
	return fmt.Sprintf(
		"audit chain broken at sequence %d (%s): expected hash %s, stored hash %s",
		e.Sequence,
		e.Reason,
		hex.EncodeToString(e.ExpectedHash),
		hex.EncodeToString(e.ActualHash),
	)
}
