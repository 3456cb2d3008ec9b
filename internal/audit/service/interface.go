// Package service provides the chain hashing service for the audit ledger.
package service

import (
	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
)

// ChainHasher computes and checks the hash links of the audit chain.
type ChainHasher interface {
	// Genesis returns the fixed genesis constant used as the PrevHash of the
	// first event in a chain.
	Genesis() []byte

	// EventHash computes the chain hash for an event over
	// (prev hash, canonical event data, event type, actor, timestamp).
	// Deterministic for identical inputs.
	EventHash(prevHash []byte, event *auditDomain.AuditEvent) []byte
}
